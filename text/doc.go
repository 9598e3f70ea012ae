// Package text shapes and rasterizes the overlay's text on the CPU.
//
// The pipeline is:
//
//   - Font: a parsed font file, used both for shaping and for outlines
//   - Shaper: HarfBuzz shaping of single lines, cached by text and size
//   - Buffer: the current multi-line string and its shaped lines
//   - Atlas: an R8 glyph cache packed in shelves, uploaded by the renderer
//   - Arrange: places a Buffer's glyphs on screen as atlas-backed quads
//
// Nothing here touches the GPU. The render package owns the texture the
// atlas is uploaded to.
//
//	f, err := text.LoadFont(fonts.Default())
//	if err != nil {
//	    return err
//	}
//	buf := text.NewBuffer(text.NewShaper(f), text.DefaultMetrics())
//	buf.SetText("12:00:00")
//	size := buf.Size(1) // width and height in pixels
package text
