package echoapi

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimu-app/elimu/core"
	"github.com/elimu-app/elimu/core/access"
	"github.com/elimu-app/elimu/core/notice"
)

// The page layer renders minimal server-side shells: the marketing pages are
// public, the dashboard shell builds its navigation from the section gate so
// it can never offer a link the middleware would deny.

var pageTmpl = template.Must(template.New("pages").Parse(`
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | {{.AppName}}</title></head>
<body>{{template "content" .}}</body>
</html>{{end}}

{{define "home"}}{{template "base" .}}{{end}}

{{define "login"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | {{.AppName}}</title></head>
<body>
<form method="post" action="/api/auth/login">
<input type="email" name="email" required>
<input type="password" name="password" required>
<input type="hidden" name="redirect" value="{{.Redirect}}">
<button type="submit">Sign in</button>
</form>
</body>
</html>{{end}}

{{define "notices"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | {{.AppName}}</title></head>
<body>
<ul>{{range .Notices}}<li><h3>{{.Title}}</h3><p>{{.Content}}</p></li>{{end}}</ul>
</body>
</html>{{end}}

{{define "dashboard"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} | {{.AppName}}</title></head>
<body>
<nav>{{range .Nav}}<a href="/dashboard?section={{.}}"{{if eq . $.Active}} aria-current="page"{{end}}>{{.}}</a>{{end}}</nav>
<main data-section="{{.Active}}"></main>
</body>
</html>{{end}}
`))

type pageData struct {
	AppName  string
	Title    string
	Redirect string
	Nav      []access.Section
	Active   access.Section
	Notices  []notice.Notice
}

type pages struct {
	conf      *core.Config
	policy    *access.Policy
	noticeSvc notice.Service
}

func registerPages(app *echo.Echo, conf *core.Config, policy *access.Policy, noticeSvc notice.Service) {
	p := pages{conf: conf, policy: policy, noticeSvc: noticeSvc}

	app.GET("/", p.home)
	app.GET("/login", p.login)
	app.GET("/register", p.login)
	app.GET("/reset-password", p.login)
	app.GET("/notices", p.notices)
	app.GET("/dashboard", p.dashboard)
	app.GET("/admin/settings", p.dashboard)
}

func (p *pages) render(ctx echo.Context, name string, data pageData) error {
	data.AppName = p.conf.AppName
	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	res.WriteHeader(http.StatusOK)
	return errors.Wrap(pageTmpl.ExecuteTemplate(res, name, data), "rendering "+name)
}

func (p *pages) home(ctx echo.Context) error {
	return p.render(ctx, "home", pageData{Title: "Welcome"})
}

func (p *pages) login(ctx echo.Context) error {
	return p.render(ctx, "login", pageData{
		Title:    "Sign in",
		Redirect: ctx.QueryParam("redirect"),
	})
}

func (p *pages) notices(ctx echo.Context) error {
	notices, err := p.noticeSvc.Query(ctx.Request().Context(), nil)
	if err != nil {
		return errors.Wrap(err, "querying notices")
	}
	return p.render(ctx, "notices", pageData{Title: "Notices", Notices: notices})
}

// dashboard serves the shell for every section, including /admin/settings.
// The middleware has already authenticated (and for the admin page,
// authorized) the request; the gate only decides what to render.
func (p *pages) dashboard(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	gate := access.NewGate(p.policy)
	gate.Login(claims.Role)
	if ctx.Request().URL.Path == "/admin/settings" {
		gate.Navigate(access.SectionSettings)
	} else if requested := ctx.QueryParam("section"); requested != "" {
		gate.Restore(access.Section(requested))
	}

	return p.render(ctx, "dashboard", pageData{
		Title:  string(gate.ActiveSection()),
		Nav:    gate.NavSections(),
		Active: gate.ActiveSection(),
	})
}
