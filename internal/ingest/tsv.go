package ingest

import "strings"

// ParseTSV parses a tab-separated bulk upload. The first line is a header
// row naming columns (matched case-insensitively): title, company, location,
// description, requirements, type, salary. Rows whose column count does not
// match the header, or whose first cell is empty, are silently skipped.
//
// The requirements cell is split on ";" with empty parts discarded. The type
// cell is upper-cased and passed through as-is; unrecognized values fail
// field validation later rather than breaking the parse.
func ParseTSV(text string) []RawRecord {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if len(lines) == 0 {
		return nil
	}

	headers := strings.Split(lines[0], "\t")
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []RawRecord
	for _, line := range lines[1:] {
		row := strings.Split(line, "\t")
		if len(row) != len(headers) || row[0] == "" {
			continue
		}

		var rec RawRecord
		for i, header := range headers {
			value := strings.TrimSpace(row[i])
			switch header {
			case "title":
				rec.Title = value
			case "company":
				rec.Company = value
			case "location":
				rec.Location = value
			case "description":
				rec.Description = value
			case "requirements":
				rec.Requirements = splitRequirements(value)
			case "type":
				rec.Type = strings.ToUpper(value)
			case "salary":
				rec.Salary = value
			}
		}
		records = append(records, rec)
	}
	return records
}

// splitRequirements splits a ";"-separated cell, trimming each part and
// discarding parts that are empty after the trim.
func splitRequirements(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ";")
	reqs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			reqs = append(reqs, trimmed)
		}
	}
	if len(reqs) == 0 {
		return nil
	}
	return reqs
}
