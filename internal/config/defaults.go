package config

// Default configuration values.
const (
	DefaultSource       = "."
	DefaultDirectory    = "./**/*.{json,yaml,yml,toml}"
	DefaultParserSchema = "core"
	DefaultConcurrency  = 0 // GOMAXPROCS
)

// ApplyDefaults fills unset fields of a ProjectConfig.
func (c *ProjectConfig) ApplyDefaults() {
	if c == nil {
		return
	}
	if c.Source == "" {
		c.Source = DefaultSource
	}
	if c.Directory == nil {
		c.Directory = DefaultDirectory
	}
	if c.ParserSchema == "" {
		c.ParserSchema = DefaultParserSchema
	}
}
