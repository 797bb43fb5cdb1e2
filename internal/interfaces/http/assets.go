package http

import (
	"embed"
	"io/fs"
	nethttp "net/http"
	"strconv"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/jhoicas/tokobangunan-pos/pkg/format"
)

//go:embed views static
var assets embed.FS

// NewViews motor de plantillas sobre las vistas embebidas.
func NewViews() *html.Engine {
	sub, err := fs.Sub(assets, "views")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(nethttp.FS(sub), ".html")
	engine.AddFuncMap(map[string]interface{}{
		"rupiah":   format.Rupiah,
		"number":   func(n int) string { return format.Number(int64(n)) },
		"date":     format.Date,
		"longdate": format.LongDate,
		"isodate":  format.ISODate,
		"now":      time.Now,
		"inc":      func(i int) int { return i + 1 },
		"percent":  func(p int) string { return strconv.Itoa(p) + "%" },
	})
	return engine
}

// StaticFS archivos estáticos (css).
func StaticFS() nethttp.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return nethttp.FS(sub)
}
