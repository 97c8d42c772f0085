package sheets

import (
	"context"

	sheetsapi "google.golang.org/api/sheets/v4"
)

// ValueInputOption makes Sheets parse values as if typed by a user,
// so formulas are evaluated and timestamps become dates.
const ValueInputOption = "USER_ENTERED"

// sheetsAPI is the subset of the Sheets API the publisher calls.
type sheetsAPI interface {
	SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error)
	AddSheet(ctx context.Context, spreadsheetID, title string) error
	Clear(ctx context.Context, spreadsheetID, rng string) error
	BatchUpdateValues(ctx context.Context, spreadsheetID string, data []*sheetsapi.ValueRange) error
}

// serviceAPI implements sheetsAPI on top of the generated client.
type serviceAPI struct {
	svc *sheetsapi.Service
}

func (a *serviceAPI) SheetTitles(ctx context.Context, spreadsheetID string) ([]string, error) {
	ss, err := a.svc.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

func (a *serviceAPI) AddSheet(ctx context.Context, spreadsheetID, title string) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: title},
			},
		}},
	}
	_, err := a.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}

func (a *serviceAPI) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := a.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheetsapi.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

func (a *serviceAPI) BatchUpdateValues(ctx context.Context, spreadsheetID string, data []*sheetsapi.ValueRange) error {
	req := &sheetsapi.BatchUpdateValuesRequest{
		ValueInputOption: ValueInputOption,
		Data:             data,
	}
	_, err := a.svc.Spreadsheets.Values.BatchUpdate(spreadsheetID, req).Context(ctx).Do()
	return err
}
