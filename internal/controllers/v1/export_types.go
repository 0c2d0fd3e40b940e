package v1

import (
	"encoding/json"
	"time"
)

type ExportResponse struct {
	Version      string                     `json:"version"`      // The version of the backend the export was made with
	Data         map[string]json.RawMessage `json:"data"`         // The exported data, keyed by resource name
	CreationTime time.Time                  `json:"creationTime"` // Time the export was created
}
