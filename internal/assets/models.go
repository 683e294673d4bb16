package assets

import _ "embed"

// ModelsData holds the raw JSON catalog of managed-provider models.
//
//go:embed models.json
var ModelsData []byte
