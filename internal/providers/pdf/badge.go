package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// GenerateBadges renders one badge per guest: name, invite code and a QR
// code the check-in screen can scan.
func (p *PDFProvider) GenerateBadges(ctx context.Context, data BadgeData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(15,
		text.NewCol(12, data.CoupleName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, data.EventDate, props.Text{
			Size:  10,
			Align: align.Center,
		}),
	)

	for _, guest := range data.Guests {
		companions := ""
		if guest.Companions > 0 {
			companions = fmt.Sprintf("+%d acompanhante(s)", guest.Companions)
		}
		m.AddRow(35,
			code.NewQrCol(3, guest.Code, props.Rect{
				Center:  true,
				Percent: 90,
			}),
			col.New(9).Add(
				text.New(guest.Name, props.Text{Size: 13, Style: fontstyle.Bold, Top: 6}),
				text.New("Código: "+guest.Code, props.Text{Size: 10, Top: 14}),
				text.New(companions, props.Text{Size: 9, Top: 20}),
			),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
