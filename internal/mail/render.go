package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"net/url"
	"strings"
	texttemplate "text/template"

	"github.com/robertozapata/portfolio/internal/i18n"
)

// SubjectPrefix starts every outgoing subject line
const SubjectPrefix = "Portfolio Contact: "

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	htmlTemplate = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/contact.html.tmpl"))
	textTemplate = texttemplate.Must(texttemplate.New("contact.txt.tmpl").
			Funcs(texttemplate.FuncMap{"upper": strings.ToUpper}).
			ParseFS(templateFS, "templates/contact.txt.tmpl"))
)

type labels struct {
	Title    string
	Tagline  string
	Name     string
	Email    string
	Subject  string
	Message  string
	SentFrom string
	Reply    string
	ReplyTo  string
}

type view struct {
	Lang      string
	Labels    labels
	Name      string
	Email     string
	Subject   string
	Body      string
	MailTo    string
	ReplyLink string
}

// Renderer turns messages into HTML and plain-text bodies labelled in one
// language
type Renderer struct {
	catalog *i18n.Catalog
	lang    i18n.Language
	site    string
}

func NewRenderer(catalog *i18n.Catalog, lang i18n.Language, site string) *Renderer {
	if !lang.IsSupported() {
		lang = i18n.DefaultLanguage
	}
	return &Renderer{catalog: catalog, lang: lang, site: site}
}

// Subject returns the outgoing subject line for msg
func (r *Renderer) Subject(msg Message) string {
	return SubjectPrefix + msg.Subject
}

// HTML renders the HTML body. Every user-supplied value is escaped.
func (r *Renderer) HTML(msg Message) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, r.view(msg)); err != nil {
		return "", fmt.Errorf("render html body: %w", err)
	}
	return buf.String(), nil
}

// Text renders the plain-text body
func (r *Renderer) Text(msg Message) (string, error) {
	var buf bytes.Buffer
	if err := textTemplate.Execute(&buf, r.view(msg)); err != nil {
		return "", fmt.Errorf("render text body: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (r *Renderer) view(msg Message) view {
	t := func(key string) string {
		return r.catalog.T(r.lang, "mail."+key, i18n.Args{"site": r.site})
	}
	return view{
		Lang: r.lang.String(),
		Labels: labels{
			Title:    t("title"),
			Tagline:  t("tagline"),
			Name:     t("name"),
			Email:    t("email"),
			Subject:  t("subject"),
			Message:  t("message"),
			SentFrom: t("sentFrom"),
			Reply:    t("reply"),
			ReplyTo:  t("replyTo"),
		},
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Body:      msg.Body,
		MailTo:    "mailto:" + msg.Email,
		ReplyLink: "mailto:" + msg.Email + "?subject=" + url.PathEscape("Re: "+msg.Subject),
	}
}
