package presenter

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Skufu/OTCAdvisor/internal/form"
	"github.com/Skufu/OTCAdvisor/internal/recommend"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageOnce sync.Once
	pageTmpl *template.Template
	pageErr  error

	emphasisOnce   sync.Once
	emphasisPolicy *bluemonday.Policy
)

// PageData is what the questionnaire page needs.
type PageData struct {
	Catalog *form.Catalog
	Values  form.Submission
	Outcome *recommend.Outcome
}

type pageView struct {
	Catalog *form.Catalog
	Values  form.Submission
	Result  *resultView
}

type resultView struct {
	Level       Level
	Title       string
	Lines       []string
	MessageHTML template.HTML
}

// RenderPage writes the questionnaire, prefilled with Values, followed by the
// outcome when there is one.
func RenderPage(w io.Writer, data PageData) error {
	tmpl, err := pageTemplate()
	if err != nil {
		return err
	}
	view := pageView{Catalog: data.Catalog, Values: data.Values}
	if data.Outcome != nil {
		view.Result = newResultView(*data.Outcome)
	}
	return tmpl.ExecuteTemplate(w, "page.html", view)
}

func newResultView(o recommend.Outcome) *resultView {
	rv := &resultView{Level: LevelOf(o.Kind)}
	if o.HasRanking() {
		rv.Title = RankingTitle
		for _, r := range o.Recommendations {
			rv.Lines = append(rv.Lines, RecommendationLine(r))
		}
	}
	if o.Kind == recommend.KindRecommended && o.Estimate != nil {
		rv.MessageHTML = EstimateHTML(o.Estimate.Label, o.Estimate.PainReduction, o.Estimate.Weeks)
	} else {
		rv.MessageHTML = template.HTML(html.EscapeString(Message(o)))
	}
	return rv
}

// EstimateHTML is the success sentence with the figures emphasised. The
// label comes from the model artifact, so the markup is sanitised before it
// is trusted.
func EstimateHTML(label string, reduction, weeks float64) template.HTML {
	raw := fmt.Sprintf("By following <strong>%s</strong>, you may reduce your pain by <strong>%.1f points</strong> in about <strong>%.1f weeks</strong>.",
		html.EscapeString(label), reduction, weeks)
	return template.HTML(emphasis().Sanitize(raw))
}

func emphasis() *bluemonday.Policy {
	emphasisOnce.Do(func() {
		p := bluemonday.StrictPolicy()
		p.AllowElements("strong")
		emphasisPolicy = p
	})
	return emphasisPolicy
}

func pageTemplate() (*template.Template, error) {
	pageOnce.Do(func() {
		pageTmpl, pageErr = template.New("page").Funcs(template.FuncMap{
			"value":    func(s form.Submission, key string) string { return s.Value(key) },
			"selected": selected,
		}).ParseFS(templateFS, "templates/*.html")
	})
	return pageTmpl, pageErr
}

func selected(s form.Submission, key, option string) bool {
	if key == form.KeySymptoms {
		return s.HasSymptom(option)
	}
	return s.Value(key) == option
}
