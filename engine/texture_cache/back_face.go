package texture_cache

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// BackFaceContent is the text drawn on the back of a box.
type BackFaceContent struct {
	Title    string
	Year     string
	Synopsis string
}

// BackFaceRenderer rasterizes back-face text into an image.
type BackFaceRenderer interface {
	// Render draws content at the renderer's fixed size.
	//
	// Parameters:
	//   - content: the text to draw
	//
	// Returns:
	//   - image.Image: the rendered back face
	//   - error: an error if rasterization fails
	Render(content BackFaceContent) (image.Image, error)
}

type backFaceRendererImpl struct {
	width, height int
	background    gg.RGBA
	foreground    gg.RGBA
	accent        gg.RGBA
	bold          *text.FontSource
	regular       *text.FontSource
}

var _ BackFaceRenderer = &backFaceRendererImpl{}

// NewBackFaceRenderer creates a renderer drawing width x (width / aspect) pixel back faces in the Go fonts.
//
// Parameters:
//   - width: the image width in pixels
//   - aspect: the face's width divided by height
//
// Returns:
//   - BackFaceRenderer: the renderer
//   - error: an error if the embedded fonts cannot be parsed
func NewBackFaceRenderer(width int, aspect float32) (BackFaceRenderer, error) {
	if width <= 0 || aspect <= 0 {
		return nil, fmt.Errorf("invalid back face size %d at aspect %v", width, aspect)
	}
	bold, err := text.NewFontSource(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	regular, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	return &backFaceRendererImpl{
		width:      width,
		height:     int(float32(width) / aspect),
		background: gg.Hex("#15161a"),
		foreground: gg.Hex("#e8e4da"),
		accent:     gg.Hex("#c9a44c"),
		bold:       bold,
		regular:    regular,
	}, nil
}

func (r *backFaceRendererImpl) Render(content BackFaceContent) (image.Image, error) {
	dc := gg.NewContext(r.width, r.height)
	defer dc.Close()

	w, h := float64(r.width), float64(r.height)
	margin := w * 0.08
	inner := w - 2*margin
	dc.ClearWithColor(r.background)

	// Spine band along the top edge.
	dc.SetColor(r.accent.Color())
	dc.DrawRectangle(0, 0, w, h*0.02)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill band: %w", err)
	}

	y := margin + h*0.02
	titleFace := r.bold.Face(w * 0.075)
	dc.SetFont(titleFace)
	dc.SetColor(r.foreground.Color())
	lineH := titleFace.Metrics().LineHeight()
	for _, line := range text.WrapText(content.Title, titleFace, inner, text.WrapWordChar) {
		y += lineH
		dc.DrawString(line.Text, margin, y)
	}

	if content.Year != "" {
		yearFace := r.regular.Face(w * 0.05)
		dc.SetFont(yearFace)
		dc.SetColor(r.accent.Color())
		y += yearFace.Metrics().LineHeight() * 1.2
		dc.DrawString(content.Year, margin, y)
	}

	y += h * 0.025
	dc.SetColor(r.accent.Color())
	dc.DrawRectangle(margin, y, inner, 2)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("fill rule: %w", err)
	}

	if content.Synopsis != "" {
		bodyFace := r.regular.Face(w * 0.042)
		dc.SetFont(bodyFace)
		dc.SetColor(r.foreground.Color())
		bodyH := bodyFace.Metrics().LineHeight() * 1.15
		bottom := h - margin
		lines := text.WrapText(content.Synopsis, bodyFace, inner, text.WrapWordChar)
		for i, line := range lines {
			if y+2*bodyH > bottom && i < len(lines)-1 {
				y += bodyH
				dc.DrawString(strings.TrimRight(line.Text, " ")+"…", margin, y)
				break
			}
			y += bodyH
			dc.DrawString(line.Text, margin, y)
		}
	}

	// The context owns its pixmap, so copy before Close.
	src := dc.Image()
	out := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), src, src.Bounds().Min, draw.Src)
	return out, nil
}

// ReadSynopsis looks for synopsis text for an item: plot.txt, synopsis.txt or <name>.txt in folder,
// then the <plot> element of any .nfo file there.
//
// Parameters:
//   - folder: the item's folder
//   - name: the item's base name
//
// Returns:
//   - string: the trimmed synopsis, empty when none is found
func ReadSynopsis(folder, name string) string {
	if folder == "" {
		return ""
	}
	candidates := []string{"plot.txt", "synopsis.txt"}
	if name != "" {
		candidates = append(candidates, name+".txt")
	}
	for _, c := range candidates {
		if b, err := os.ReadFile(filepath.Join(folder, c)); err == nil {
			if s := strings.TrimSpace(string(b)); s != "" {
				return s
			}
		}
	}

	nfos, _ := filepath.Glob(filepath.Join(folder, "*.nfo"))
	for _, nfo := range nfos {
		b, err := os.ReadFile(nfo)
		if err != nil {
			continue
		}
		s := string(b)
		start := strings.Index(s, "<plot>")
		end := strings.Index(s, "</plot>")
		if start >= 0 && end > start {
			if plot := strings.TrimSpace(s[start+len("<plot>") : end]); plot != "" {
				return plot
			}
		}
	}
	return ""
}
