package cartpanel

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/dwikikusuma/storefront/internal/cart/domain"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var panelTemplate = template.Must(
	template.New("panel").
		Funcs(template.FuncMap{"rowPath": RowPath}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// RowPath is the form target for a row control.
func RowPath(key domain.LineKey, action string) string {
	return "/cart/items/" + strconv.FormatInt(key.ID, 10) + "/" + url.PathEscape(key.Size) + "/" + action
}

// Render writes the panel markup. Empty writes nothing.
func Render(w io.Writer, v View) error {
	switch v := v.(type) {
	case Empty:
		return nil
	case Rendered:
		return panelTemplate.ExecuteTemplate(w, "panel", v.Drawer)
	default:
		return fmt.Errorf("cartpanel: unknown view %T", v)
	}
}

// Fragment renders v into a value that can be embedded in a page template.
func Fragment(v View) (template.HTML, error) {
	var b strings.Builder
	if err := Render(&b, v); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}
