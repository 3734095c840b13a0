package tour

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/cetra-app/cetra/internal/i18n"
)

type stepView struct {
	Step
	Title       string `json:"title"`
	Description string `json:"description"`
}

type tourView struct {
	Name          string     `json:"name"`
	CompletionKey string     `json:"completionKey"`
	PollMillis    int64      `json:"pollIntervalMs"`
	StartMillis   int64      `json:"startDelayMs"`
	Layout        layoutView `json:"layout"`
	Steps         []stepView `json:"steps"`
}

type layoutView struct {
	Tooltip     Size    `json:"tooltip"`
	Gap         float64 `json:"gap"`
	Margin      float64 `json:"margin"`
	RightSpace  float64 `json:"rightSpace"`
	BottomSpace float64 `json:"bottomSpace"`
	LeftSpace   float64 `json:"leftSpace"`
	ArrowSize   float64 `json:"arrowSize"`
	ArrowOffset float64 `json:"arrowOffset"`
}

// Catalog returns the built-in tours with step text in the ?lang= language.
func Catalog(c *fiber.Ctx) error {
	lang := c.Query("lang", i18n.Default)
	if !i18n.Supported(lang) {
		lang = i18n.Default
	}
	defs := Builtins()
	out := make([]tourView, 0, len(defs))
	for _, def := range defs {
		steps := make([]stepView, 0, len(def.Steps))
		for _, s := range def.Steps {
			steps = append(steps, stepView{Step: s, Title: s.Title(lang), Description: s.Description(lang)})
		}
		l := def.Layout
		out = append(out, tourView{
			Name:          def.Name,
			CompletionKey: def.CompletionKey,
			PollMillis:    def.PollInterval.Milliseconds(),
			StartMillis:   def.StartDelay.Milliseconds(),
			Layout: layoutView{
				Tooltip: l.Tooltip, Gap: l.Gap, Margin: l.Margin,
				RightSpace: l.RightSpace, BottomSpace: l.BottomSpace, LeftSpace: l.LeftSpace,
				ArrowSize: l.ArrowSize, ArrowOffset: l.ArrowOffset,
			},
			Steps: steps,
		})
	}
	return c.Status(http.StatusOK).JSON(out)
}
