package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Roster   RosterConfig   `mapstructure:"roster"`
	Template TemplateConfig `mapstructure:"template"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	Output   OutputConfig   `mapstructure:"output"`
	Server   ServerConfig   `mapstructure:"server"`
}

// RosterConfig holds roster column names and decoding hints
type RosterConfig struct {
	IDColumn         string   `mapstructure:"id_column"`          // Student identifier column
	SchoolCodeColumn string   `mapstructure:"school_code_column"` // Column used to name outputs
	ClassColumn      string   `mapstructure:"class_column"`       // Column normalised to its digit run
	Sheet            string   `mapstructure:"sheet"`              // Roster sheet name ("" = first sheet)
	Encodings        []string `mapstructure:"encodings"`          // Fallback code pages for non-UTF-8 CSV
}

// FieldMapping binds a template label to a roster column
type FieldMapping struct {
	Label  string `mapstructure:"label"`  // Text before " :" in the template, e.g. "PROJECT"
	Column string `mapstructure:"column"` // Roster column providing the value
}

// TemplateConfig holds template location and marker texts
type TemplateConfig struct {
	Path              string         `mapstructure:"path"`               // Default template file
	Sheet             string         `mapstructure:"sheet"`              // Template sheet ("" = active sheet)
	IDMarker          string         `mapstructure:"id_marker"`          // Header cell of the identifier column
	SerialMarker      string         `mapstructure:"serial_marker"`      // Header cell of the serial number column
	TitleMarker       string         `mapstructure:"title_marker"`       // Title cell restyled large and bold
	InstructionMarker string         `mapstructure:"instruction_marker"` // Instruction cell restyled small
	Fields            []FieldMapping `mapstructure:"fields"`             // Header labels substituted per group
}

// LayoutConfig holds sheet geometry and styling applied to every filled document
type LayoutConfig struct {
	FontFamily          string  `mapstructure:"font_family"`
	TitleFontSize       float64 `mapstructure:"title_font_size"`
	InstructionFontSize float64 `mapstructure:"instruction_font_size"`
	IDFontSize          float64 `mapstructure:"id_font_size"`
	RowHeight           float64 `mapstructure:"row_height"`
	ColumnWidth         float64 `mapstructure:"column_width"`
	Margin              float64 `mapstructure:"margin"`     // Inches, all four sides
	PaperSize           int     `mapstructure:"paper_size"` // Excel paper size code (9 = A4)
	FitToWidth          int     `mapstructure:"fit_to_width"`
	FitToHeight         int     `mapstructure:"fit_to_height"`
	BorderFilledRows    bool    `mapstructure:"border_filled_rows"` // Draw thin borders on filled rows
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir        string   `mapstructure:"dir"`         // Output directory
	Formats    []string `mapstructure:"formats"`     // Renderer formats (pdf, xlsx, docx, html)
	FilePrefix string   `mapstructure:"file_prefix"` // Prefix before the school code
	Manifest   bool     `mapstructure:"manifest"`    // Write groups.csv next to the outputs
	Workers    int      `mapstructure:"workers"`     // Groups rendered concurrently
	Strict     bool     `mapstructure:"strict"`      // Fail groups whose template lacks the identifier marker

	Report       bool   `mapstructure:"report"`        // Write report.xlsx with batch totals and groups
	DocxTemplate string `mapstructure:"docx_template"` // Custom Word template ("" = built-in)

	ConverterURL     string        `mapstructure:"converter_url"`     // LibreOffice conversion route for office-pdf
	ConverterTimeout time.Duration `mapstructure:"converter_timeout"` // Per-document conversion timeout
}

// ServerConfig holds web delivery settings
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	MaxUploadMB   int64         `mapstructure:"max_upload_mb"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace"`
	KeepBatches   int           `mapstructure:"keep_batches"` // Batches kept in memory for download
}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	v.SetEnvPrefix("ATTENDGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Printf("Config file %s not found. Using defaults.\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file is present
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// WriteDefault writes the default configuration as YAML, ready for editing
func WriteDefault(path string) error {
	v := viper.New()
	setDefaults(v)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// setDefaults configures the values of the stock attendance template
func setDefaults(v *viper.Viper) {
	v.SetDefault("roster.id_column", "STUDENT ID")
	v.SetDefault("roster.school_code_column", "School Code")
	v.SetDefault("roster.class_column", "CLASS")
	v.SetDefault("roster.sheet", "")
	v.SetDefault("roster.encodings", []string{"windows-1252", "iso-8859-1"})

	v.SetDefault("template.path", "")
	v.SetDefault("template.sheet", "")
	v.SetDefault("template.id_marker", "STUDENT ID")
	v.SetDefault("template.serial_marker", "S.NO")
	v.SetDefault("template.title_marker", "ATTENDANCE LIST")
	v.SetDefault("template.instruction_marker", "(PLEASE FILL ALL THE DETAILS IN BLOCK LETTERS)")
	v.SetDefault("template.fields", []map[string]string{
		{"label": "PROJECT", "column": "PROJECT-CITY"},
		{"label": "DISTRICT", "column": "District"},
		{"label": "BLOCK", "column": "Block"},
		{"label": "SCHOOL", "column": "SCHOOL NAME"},
		{"label": "CLASS", "column": "CLASS"},
	})

	v.SetDefault("layout.font_family", "Calibri")
	v.SetDefault("layout.title_font_size", 20)
	v.SetDefault("layout.instruction_font_size", 9)
	v.SetDefault("layout.id_font_size", 11)
	v.SetDefault("layout.row_height", 60)
	v.SetDefault("layout.column_width", 18)
	v.SetDefault("layout.margin", 0.25)
	v.SetDefault("layout.paper_size", 9)
	v.SetDefault("layout.fit_to_width", 1)
	v.SetDefault("layout.fit_to_height", 0)
	v.SetDefault("layout.border_filled_rows", false)

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.formats", []string{"pdf"})
	v.SetDefault("output.file_prefix", "school_")
	v.SetDefault("output.manifest", true)
	v.SetDefault("output.workers", 1)
	v.SetDefault("output.strict", false)
	v.SetDefault("output.report", false)
	v.SetDefault("output.docx_template", "")
	v.SetDefault("output.converter_url", "")
	v.SetDefault("output.converter_timeout", "60s")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 32)
	v.SetDefault("server.shutdown_grace", "5s")
	v.SetDefault("server.keep_batches", 16)
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	if c.Template.Path != "" {
		absTemplate, err := filepath.Abs(c.Template.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve template.path: %w", err)
		}
		c.Template.Path = absTemplate
	}

	if c.Output.DocxTemplate != "" {
		absDocx, err := filepath.Abs(c.Output.DocxTemplate)
		if err != nil {
			return fmt.Errorf("failed to resolve output.docx_template: %w", err)
		}
		c.Output.DocxTemplate = absDocx
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// GetLogPath returns the log file location inside the output directory
func (c *Config) GetLogPath() string {
	return filepath.Join(c.Output.Dir, "attendgen.log")
}

// FieldColumn returns the roster column bound to a template label
func (c *Config) FieldColumn(label string) (string, bool) {
	for _, f := range c.Template.Fields {
		if strings.EqualFold(f.Label, label) {
			return f.Column, true
		}
	}
	return "", false
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Roster.IDColumn) == "" {
		return fmt.Errorf("roster.id_column cannot be empty")
	}

	if strings.TrimSpace(c.Template.IDMarker) == "" {
		return fmt.Errorf("template.id_marker cannot be empty")
	}

	for i, f := range c.Template.Fields {
		if strings.TrimSpace(f.Label) == "" || strings.TrimSpace(f.Column) == "" {
			return fmt.Errorf("template.fields[%d] needs both label and column", i)
		}
	}

	if len(c.Output.Formats) == 0 {
		return fmt.Errorf("output.formats must contain at least one format")
	}

	if c.Output.Workers < 1 {
		return fmt.Errorf("output.workers must be at least 1, got %d", c.Output.Workers)
	}

	if c.Layout.RowHeight <= 0 || c.Layout.ColumnWidth <= 0 {
		return fmt.Errorf("layout.row_height and layout.column_width must be positive")
	}

	if c.Layout.Margin < 0 {
		return fmt.Errorf("layout.margin cannot be negative")
	}

	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive")
	}

	return nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== attendgen Configuration ===")
	fmt.Printf("ID Column:        %s\n", c.Roster.IDColumn)
	fmt.Printf("School Code:      %s\n", c.Roster.SchoolCodeColumn)
	fmt.Printf("Class Column:     %s\n", c.Roster.ClassColumn)
	fmt.Printf("Template:         %s\n", c.Template.Path)
	for _, f := range c.Template.Fields {
		fmt.Printf("  %-14s <- %s\n", f.Label+" :", f.Column)
	}
	fmt.Printf("Row Height:       %.1f\n", c.Layout.RowHeight)
	fmt.Printf("Column Width:     %.1f\n", c.Layout.ColumnWidth)
	fmt.Printf("Formats:          %v\n", c.Output.Formats)
	fmt.Printf("Workers:          %d\n", c.Output.Workers)
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Println("===============================")
}
