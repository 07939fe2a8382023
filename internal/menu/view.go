package menu

import (
	"encoding/json"
	"html/template"
	"io"
)

// uploadPage is the static upload form. Presentation only.
const uploadPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Menulens</title>
    <style>
      body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; padding: 24px; max-width: 720px; margin: 0 auto; }
      form { border: 1px dashed #ccc; border-radius: 12px; padding: 24px; }
      button { margin-top: 12px; padding: 8px 16px; }
    </style>
  </head>
  <body>
    <h1>Menulens</h1>
    <p>Upload a plain-text menu or a WhatsApp chat export and get back a structured menu.</p>
    <form action="/extract" method="post" enctype="multipart/form-data">
      <input type="file" name="file" accept=".txt,text/plain" required />
      <br />
      <button type="submit">Extract menu</button>
    </form>
    <p><a href="/menus">Recent menus (JSON)</a></p>
  </body>
</html>`

var detailTemplate = template.Must(template.New("detail").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Menu #{{.ID}}</title>
    <style>
      body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; padding: 24px; max-width: 960px; margin: 0 auto; }
      table { width: 100%; border-collapse: collapse; }
      th, td { border: 1px solid #eee; padding: 8px; text-align: left; vertical-align: top; }
      th { background: #fafafa; }
    </style>
  </head>
  <body>
    <h1>Menu #{{.ID}}</h1>
    <div>Vendor: {{.Vendor}}</div>
    <div>Currency: {{.Currency}}</div>
    <h2>Items</h2>
    <table>
      <thead>
        <tr>
          <th>Name</th><th>Category</th><th>Description</th><th>Price</th><th>Options</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}<tr>
          <td>{{.Name}}</td>
          <td>{{.Category}}</td>
          <td>{{.Description}}</td>
          <td>{{.Price}}</td>
          <td>{{.Options}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </body>
</html>`))

type detailView struct {
	ID       int
	Vendor   string
	Currency string
	Items    []itemRow
}

type itemRow struct {
	Name        string
	Category    string
	Description string
	Price       string
	Options     string
}

func renderDetail(w io.Writer, stored *StoredMenu) error {
	view := detailView{
		ID:       stored.ID,
		Vendor:   textOr(stored.Vendor, "Unknown"),
		Currency: textOr(stored.Currency, "-"),
	}

	for _, item := range stored.Items {
		row := itemRow{
			Name:        item.Name,
			Category:    item.Category,
			Description: item.Description,
			Price:       item.Price.String(),
		}

		if len(item.Options) > 0 {
			opts, err := json.Marshal(item.Options)
			if err == nil {
				row.Options = string(opts)
			}
		}

		view.Items = append(view.Items, row)
	}

	return detailTemplate.Execute(w, view)
}

func textOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
