package models

// Content types.
const (
	ContentTypeHTML       = "html"
	ContentTypeCSS        = "css"
	ContentTypeJS         = "js"
	ContentTypeJSExternal = "js-external"
	ContentTypeRaw        = "raw"
)

// Content templates.
const (
	TemplateImage        = "image"
	TemplateImageNoWidth = "image-nowidth"
	TemplateFlash        = "flash"
	TemplateFlashNoWidth = "flash-nowidth"
)

// Content is one renderable piece of a winning decision. An image ad,
// for example, is html content rendered with the image template.
type Content struct {
	// Type is one of the ContentType constants.
	Type string
	// Template names the template the content is rendered with, unless the
	// content is raw.
	Template string
	// CustomTemplate holds the template body for raw content.
	CustomTemplate string
	// Body is the rendered markup.
	Body string
	// Data holds the template inputs and custom creative metadata.
	Data ContentData
}

// IsImage reports whether the content uses the image template.
func (c Content) IsImage() bool { return c.Template == TemplateImage }

// IsRawType reports whether the content is raw.
func (c Content) IsRawType() bool { return c.Type == ContentTypeRaw }

func (c Content) HasCreativeData() bool            { return c.Data.Present() }
func (c Content) CreativeData() map[string]any     { return c.Data.Map() }
func (c Content) CreativeMetadata() map[string]any { return c.Data.Metadata().Map() }
func (c Content) ImageURL() (string, bool)         { return c.Data.ImageURL() }
func (c Content) Title() (string, bool)            { return c.Data.Title() }
func (c Content) Width() (int, bool)               { return c.Data.Width() }
func (c Content) Height() (int, bool)              { return c.Data.Height() }
