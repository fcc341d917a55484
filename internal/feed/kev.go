package feed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"

	"cyberbrief/internal/config"
)

// KEVRow is one record of the CISA known-exploited-vulnerabilities CSV,
// kept provider-native; the normalizer maps it onto the canonical item.
type KEVRow struct {
	CVEID             string
	VendorProject     string
	Product           string
	VulnerabilityName string
	DateAdded         string
	ShortDescription  string
	RequiredAction    string
	DueDate           string
}

var kevColumns = []string{"cveID", "vendorProject", "product", "vulnerabilityName", "dateAdded", "shortDescription", "requiredAction", "dueDate"}

func fetchKEV(ctx context.Context, src config.Source) Result {
	res := Result{Source: src, FetchedAt: time.Now().UTC()}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		res.Status = StatusUnreachable
		res.Err = err
		return res
	}
	req.Header.Set("User-Agent", "cyberbrief/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		res.Status = classifyError(err)
		res.Err = err
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		res.Status = StatusUnreachable
		res.Err = fmt.Errorf("kev feed: status %d", resp.StatusCode)
		return res
	}

	rows, skipped, err := parseKEVCSV(resp.Body)
	if err != nil {
		res.Status = StatusParseError
		res.Err = err
		return res
	}

	res.Status = StatusOK
	res.KEVRows = rows
	res.Skipped = skipped
	return res
}

// parseKEVCSV reads the catalog, mapping columns by header name so
// column reordering upstream does not break us. A malformed row is
// skipped and counted, never fatal for the batch.
func parseKEVCSV(r io.Reader) ([]KEVRow, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("kev csv: read header: %w", err)
	}

	index := map[string]int{}
	for i, col := range header {
		index[col] = i
	}
	for _, col := range kevColumns {
		if _, ok := index[col]; !ok {
			return nil, 0, fmt.Errorf("kev csv: missing column %q", col)
		}
	}

	field := func(record []string, col string) string {
		i := index[col]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []KEVRow
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		row := KEVRow{
			CVEID:             field(record, "cveID"),
			VendorProject:     field(record, "vendorProject"),
			Product:           field(record, "product"),
			VulnerabilityName: field(record, "vulnerabilityName"),
			DateAdded:         field(record, "dateAdded"),
			ShortDescription:  field(record, "shortDescription"),
			RequiredAction:    field(record, "requiredAction"),
			DueDate:           field(record, "dueDate"),
		}
		if row.CVEID == "" {
			skipped++
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped, nil
}
