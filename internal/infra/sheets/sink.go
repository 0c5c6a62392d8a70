package sheets

import "context"

// Sink implements app.ResponseSink against the spreadsheet. Callers treat
// failures as non-fatal; this type only reports them.
type Sink struct {
	client *Client
}

func NewSink(client *Client) *Sink {
	return &Sink{client: client}
}

func (s *Sink) Append(ctx context.Context, worksheet string, header, row []string) error {
	if err := s.client.ensureWorksheet(ctx, worksheet, header); err != nil {
		return err
	}
	return s.client.appendRow(ctx, worksheet, row)
}
