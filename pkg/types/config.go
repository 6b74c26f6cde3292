package types

// ConversionBackend identifies the document conversion tool.
type ConversionBackend string

const (
	BackendDocling    ConversionBackend = "docling"
	BackendMarkitdown ConversionBackend = "markitdown"
	BackendFitz       ConversionBackend = "fitz"
)

// DoclingConfig holds settings for the docling backend.
type DoclingConfig struct {
	// Binary is the docling executable when run locally (default "docling").
	Binary string `json:"binary" yaml:"binary" mapstructure:"binary"`

	// UseContainer runs docling inside docker or podman instead of locally.
	UseContainer bool `json:"use_container" yaml:"use_container" mapstructure:"use_container"`

	// Image is the container image providing the docling CLI.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// ExtraArgs are appended to the docling command line (e.g. "--no-ocr").
	ExtraArgs []string `json:"extra_args,omitempty" yaml:"extra_args,omitempty" mapstructure:"extra_args"`
}

// MarkitdownConfig holds settings for the markitdown backend.
type MarkitdownConfig struct {
	// Image is the container image reading a document on stdin and writing
	// Markdown on stdout.
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// FitzConfig holds settings for the native MuPDF backend.
type FitzConfig struct {
	// DPI is the resolution page images are rendered at (default 144,
	// twice the PDF user-space resolution).
	DPI float64 `json:"dpi" yaml:"dpi" mapstructure:"dpi"`
}

// ConversionConfig holds settings for the convert command.
type ConversionConfig struct {
	// InputDir contains the worklist config and the documents it lists.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives <base>.md, <base>_images/ and <base>_patched.pdf.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// ConfigFile is the INI worklist (default <InputDir>/config.ini).
	ConfigFile string `json:"config_file" yaml:"config_file" mapstructure:"config_file"`

	// Backend selects the converter: docling, markitdown, or fitz.
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// ReportPath, when set, receives a YAML run report.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty" mapstructure:"report_path"`

	Docling    DoclingConfig    `json:"docling" yaml:"docling" mapstructure:"docling"`
	Markitdown MarkitdownConfig `json:"markitdown" yaml:"markitdown" mapstructure:"markitdown"`
	Fitz       FitzConfig       `json:"fitz" yaml:"fitz" mapstructure:"fitz"`
}

// LogConfig selects diagnostic log output.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is console or json (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}
