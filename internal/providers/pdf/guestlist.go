package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GenerateGuestList renders the confirmation list the couple prints
// before the event.
func (p *PDFProvider) GenerateGuestList(ctx context.Context, data GuestListData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(15,
		text.NewCol(12, "Lista de convidados", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		col.New(12).Add(
			text.New(data.CoupleName, props.Text{Size: 10, Top: 0}),
			text.New("Gerado em "+data.GeneratedAt, props.Text{Size: 9, Top: 5}),
		),
	)

	m.AddRow(8,
		text.NewCol(4, "Nome", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Código", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Acomp.", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Confirmado", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Entrada", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, row := range data.Rows {
		confirmed := "não"
		if row.Confirmed {
			confirmed = "sim"
		}
		entry := "-"
		if row.CheckedIn {
			entry = row.EntryTime
		}
		m.AddRow(8,
			text.NewCol(4, row.Name, props.Text{Size: 9}),
			text.NewCol(2, row.Code, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", row.Companions), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, confirmed, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, entry, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(6),
		text.NewCol(6,
			fmt.Sprintf("%d convidados, %d confirmados, %d acompanhantes",
				data.Total, data.Confirmed, data.Companions),
			props.Text{Size: 9, Align: align.Right, Top: 4}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
