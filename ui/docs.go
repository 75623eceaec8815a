package ui

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// DocsHandler serves the built-in reference pages as rendered HTML.
type DocsHandler struct {
	topics map[string]string
}

func NewDocsHandler() *DocsHandler {
	return &DocsHandler{topics: docTopics}
}

// HandleTopicList names the available pages: GET /api/docs.
func (h *DocsHandler) HandleTopicList() gin.HandlerFunc {
	return func(c *gin.Context) {
		names := make([]string, 0, len(h.topics))
		for name := range h.topics {
			names = append(names, name)
		}
		sort.Strings(names)
		c.JSON(http.StatusOK, gin.H{"topics": names})
	}
}

// HandleTopic renders one page: GET /api/docs/:topic.
func (h *DocsHandler) HandleTopic() gin.HandlerFunc {
	return func(c *gin.Context) {
		source, ok := h.topics[c.Param("topic")]
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown documentation topic"})
			return
		}

		// Parser instances are single-use, so each request gets its own.
		p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
		renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
		page := markdown.ToHTML([]byte(source), p, renderer)

		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	}
}

var docTopics = map[string]string{
	"generator": `# Random Number Generation

Every run draws from a linear congruential generator:

    next = (1664525 * current + 1013904223) mod 2^32

Draws are the state divided by 2^32, so each lies in [0, 1). The seed
fully determines the stream: the same seed with the same request always
returns the same sample, the same fingerprint, and the same experiment
outcome. Omit the seed and the workbench derives one from the clock,
the process id, and a random word, then reports it back so the run can
be replayed.

The generator is deliberately simple and predictable. Do not use it for
anything security-related.
`,
	"distributions": `# Distribution Families

| Family      | Parameters            | Sampling method            |
|-------------|-----------------------|----------------------------|
| uniform     | low, high             | low + (high-low) * u       |
| exponential | rate                  | -ln(u) / rate              |
| normal      | mean, std_dev         | Box-Muller transform       |
| bernoulli   | prob                  | u < prob                   |
| binomial    | trials, prob          | sum of Bernoulli draws     |
| poisson     | rate                  | Knuth product method       |

Draw counts differ per family: uniform, exponential and bernoulli use
one draw per value, normal uses two, binomial uses one per trial, and
poisson uses a variable number. The reported draw count makes the
consumption auditable.
`,
	"fit": `# Goodness-of-Fit Battery

A fit request estimates the target family's parameters from the sample
and then runs two independent tests at the chosen significance level:

- **Kolmogorov-Smirnov** compares the empirical CDF against the fitted
  CDF. Continuous families get the two-sided statistic with the
  asymptotic Kolmogorov p-value; discrete families (poisson) use a
  stepwise variant that is stricter when many values tie.
- **Chi-square** bins the sample (Sturges' rule, bins merged until each
  expects at least five observations) and compares observed counts to
  the fitted family's expectations.

Each test decides independently at alpha. The combined verdict is
"both_agree_fit", "both_agree_no_fit", or "disagreement" when the tests
split. Disagreement is a weaker conclusion, not an error.

Fittable families: normal, exponential, uniform, poisson.
`,
	"experiments": `# Monte Carlo Experiments

| Kind          | Question                                                |
|---------------|---------------------------------------------------------|
| pi            | Estimate pi from points thrown at an inscribed circle   |
| gamblers_ruin | How often does a fixed-bet gambler go broke?            |
| queue         | Waiting times in a single-server queue                  |
| integral      | Area under f(x) on [0,1] by rejection sampling          |
| inventory     | Which order quantity minimizes holding + shortage cost? |
| power         | False positive rate of a z-test at the null mean        |

Every experiment reports its estimate, named metrics, a draw count, the
seed that produced it, and a short trace explaining the run. Batch runs
execute one kind over many configurations concurrently and return
results in request order.

Integral expressions support +, -, *, /, ** (or ^), parentheses, the
variable x, the constants pi and e, and the functions sin, cos, tan,
sqrt, log (ln), exp, abs and pow(a, b). Points where the expression is
undefined are skipped and counted.
`,
}
