// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"github.com/pdiddy/hwpx-convert/internal/doc"
	"github.com/pdiddy/hwpx-convert/internal/hwpx"
)

// picture is an embedded image, shared by every reference to its source.
type picture struct {
	ref           string
	width, height int // natural size, HWPUNIT
	err           error
}

func (r *renderer) picture(src string) picture {
	if pic, ok := r.pictures[src]; ok {
		return pic
	}
	var pic picture
	img, err := r.opts.Images.Load(r.ctx, src)
	if err != nil {
		pic.err = err
	} else {
		pic.ref = r.pkg.AddBinary(img.Data, img.Ext(), img.MediaType)
		pic.width = img.Width * hwpx.UnitsPerPixel
		pic.height = img.Height * hwpx.UnitsPerPixel
	}
	r.pictures[src] = pic
	return pic
}

func (r *renderer) image(p *hwpx.Paragraph, sc scope, cs charState, img doc.Image) {
	alt := func() {
		if img.Alt != "" {
			p.Text(r.charPr(cs), img.Alt)
		}
	}
	if r.opts.Images == nil || img.Src == "" {
		alt()
		return
	}
	pic := r.picture(img.Src)
	if pic.err != nil {
		r.warn(pic.err, img.Src)
		alt()
		return
	}
	w, h := displaySize(pic.width, pic.height, img.Width, img.Height, sc.width)
	p.Object(r.charPr(cs), hwpx.NewPicture(hwpx.PictureSpec{
		ID:         r.sec.NextID(),
		BinaryRef:  pic.ref,
		Width:      w,
		Height:     h,
		OrigWidth:  pic.width,
		OrigHeight: pic.height,
	}))
	r.stats.Images++
}

// displaySize picks the rendered size: stated dimensions win, a single
// stated dimension keeps the aspect ratio, and the result never exceeds
// maxWidth.
func displaySize(natW, natH, wantW, wantH, maxWidth int) (int, int) {
	w, h := natW, natH
	switch {
	case wantW > 0 && wantH > 0:
		w, h = wantW, wantH
	case wantW > 0 && natW > 0:
		w, h = wantW, natH*wantW/natW
	case wantH > 0 && natH > 0:
		w, h = natW*wantH/natH, wantH
	}
	if maxWidth > 0 && w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}
	return max(w, 1), max(h, 1)
}
