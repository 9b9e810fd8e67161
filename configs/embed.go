package configs

import _ "embed"

//go:embed messages.yml
var Messages []byte
