package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListStudents returns student records; the endpoint may answer with a bare list or a page.
func (c *Client) ListStudents(ctx context.Context) ([]Record, error) {
	raw, err := authorized[json.RawMessage](ctx, c, http.MethodGet, "students/", nil, nil)
	if err != nil {
		return nil, err
	}
	data := bytes.TrimSpace(*raw)
	if len(data) == 0 {
		return nil, nil
	}
	if data[0] == '[' {
		var ret []Record
		if err = json.Unmarshal(data, &ret); err != nil {
			return nil, fmt.Errorf("malformed students response: %w", err)
		}
		return ret, nil
	}
	var page Page[Record]
	if err = json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("malformed students response: %w", err)
	}
	return page.Results, nil
}
