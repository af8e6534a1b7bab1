package server

import (
	"net/http"

	contractdomain "github.com/celebreapp/celebre/internal/contract/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListContracts(c *gin.Context) {
	contracts, err := s.contractSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (s *Server) CreateContract(c *gin.Context) {
	var contract contractdomain.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}

	if err := s.contractSvc.Create(c.Request.Context(), &contract); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) GetContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	contract, err := s.contractSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) UpdateContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var contract contractdomain.Contract
	if err := c.ShouldBindJSON(&contract); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request"))
		return
	}
	contract.ID = id

	if err := s.contractSvc.Update(c.Request.Context(), &contract); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) DeleteContract(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.contractSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ContractSummary(c *gin.Context) {
	summary, err := s.contractSvc.Summary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
