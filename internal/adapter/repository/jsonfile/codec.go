package jsonfile

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/priorityflow-backend/internal/domain"
)

// assetRecord mirrors one entry of the portfolio JSON array
type assetRecord struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	CurrentValue  json.Number `json:"current_value"`
	PriorityScore int         `json:"priority_score"`
	Suggestion    *string     `json:"suggestion"`
}

// eventRecord mirrors one entry of the events JSON array
type eventRecord struct {
	ID           string `json:"id"`
	Suggestion   string `json:"suggestion"`
	PriorityBump int    `json:"priority_bump"`
}

func (r assetRecord) toDomain() (domain.Asset, error) {
	value := decimal.Zero
	if r.CurrentValue != "" {
		v, err := decimal.NewFromString(r.CurrentValue.String())
		if err != nil {
			return domain.Asset{}, fmt.Errorf("failed to parse current_value for asset %q: %w", r.ID, err)
		}
		value = v
	}

	suggestion := domain.NoSuggestion
	if r.Suggestion != nil && *r.Suggestion != "" {
		suggestion = *r.Suggestion
	}

	return domain.Asset{
		ID:            r.ID,
		Name:          r.Name,
		Type:          r.Type,
		CurrentValue:  value,
		PriorityScore: r.PriorityScore,
		Suggestion:    suggestion,
	}, nil
}

func fromDomain(a domain.Asset) assetRecord {
	suggestion := a.Suggestion
	return assetRecord{
		ID:            a.ID,
		Name:          a.Name,
		Type:          a.Type,
		CurrentValue:  json.Number(a.CurrentValue.String()),
		PriorityScore: a.PriorityScore,
		Suggestion:    &suggestion,
	}
}

func isGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// readFile returns the file contents, inflating .gz paths
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !isGzip(path) {
		return data, nil
	}
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// writeFile writes data to path, deflating .gz paths and creating the parent directory
func writeFile(path string, data []byte) error {
	if isGzip(path) {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(data); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
