package tour

import (
	"time"

	"github.com/cetra-app/cetra/internal/prefs"
)

const (
	tooltipMargin = 12
	arrowSize     = 10
	arrowOffset   = 4
)

var (
	DashboardLayout = Layout{
		Tooltip: Size{Width: 300, Height: 180}, Gap: 16, Margin: tooltipMargin,
		RightSpace: 320, BottomSpace: 200, LeftSpace: 320,
		ArrowSize: arrowSize, ArrowOffset: arrowOffset,
	}
	BuilderLayout = Layout{
		Tooltip: Size{Width: 320, Height: 200}, Gap: 16, Margin: tooltipMargin,
		RightSpace: 340, BottomSpace: 220, LeftSpace: 340,
		ArrowSize: arrowSize, ArrowOffset: arrowOffset,
	}
	CardSettingsLayout = Layout{
		Tooltip: Size{Width: 290, Height: 180}, Gap: 14, Margin: tooltipMargin,
		RightSpace: 340, BottomSpace: 220, LeftSpace: 340,
		ArrowSize: arrowSize, ArrowOffset: arrowOffset,
	}
)

func target(name string) string     { return "[data-tour='" + name + "']" }
func cardTarget(name string) string { return "[data-tour-card='" + name + "']" }

// Dashboard walks through the main dashboard shell.
var Dashboard = Definition{
	Name:          "dashboard",
	CompletionKey: prefs.KeyDashboardTour,
	Layout:        DashboardLayout,
	PollInterval:  500 * time.Millisecond,
	StartDelay:    800 * time.Millisecond,
	Steps: []Step{
		{Target: target("sidebar-nav"), TitleKey: "tour.step1.title", DescriptionKey: "tour.step1.desc", Placement: SideRight},
		{Target: target("workflow-builder"), TitleKey: "tour.step2.title", DescriptionKey: "tour.step2.desc", Placement: SideRight},
		{Target: target("subscription"), TitleKey: "tour.step3.title", DescriptionKey: "tour.step3.desc", Placement: SideRight},
		{Target: target("referrals"), TitleKey: "tour.step4.title", DescriptionKey: "tour.step4.desc", Placement: SideRight},
		{Target: target("settings"), TitleKey: "tour.step5.title", DescriptionKey: "tour.step5.desc", Placement: SideRight},
	},
}

// Builder introduces the workflow builder canvas.
var Builder = Definition{
	Name:          "builder",
	CompletionKey: prefs.KeyBuilderTour,
	Layout:        BuilderLayout,
	PollInterval:  500 * time.Millisecond,
	StartDelay:    600 * time.Millisecond,
	SettleDelay:   100 * time.Millisecond,
	Steps: []Step{
		{Target: target("canvas"), TitleKey: "btour.step1.title", DescriptionKey: "btour.step1.desc", Placement: SideBottom},
		{Target: target("add-card"), TitleKey: "btour.step2.title", DescriptionKey: "btour.step2.desc", Placement: SideRight},
		{Target: target("node"), TitleKey: "btour.step3.title", DescriptionKey: "btour.step3.desc", Placement: SideRight},
		{Target: target("edge"), TitleKey: "btour.step4.title", DescriptionKey: "btour.step4.desc", Placement: SideBottom},
		{Target: target("settings-panel"), TitleKey: "btour.step5.title", DescriptionKey: "btour.step5.desc", Placement: SideLeft},
		{Target: target("advanced-toggle"), TitleKey: "btour.step6.title", DescriptionKey: "btour.step6.desc", Placement: SideLeft},
		{Target: target("template-indicator"), TitleKey: "btour.step7.title", DescriptionKey: "btour.step7.desc", Placement: SideBottom},
		{Target: target("save-button"), TitleKey: "btour.step8.title", DescriptionKey: "btour.step8.desc", Placement: SideBottom},
	},
}

// CardSettings explains the card settings panel. Several steps open a
// collapsed section or switch on advanced mode before their target exists.
var CardSettings = Definition{
	Name:          "card-settings",
	CompletionKey: prefs.KeyCardSettingsTour,
	Layout:        CardSettingsLayout,
	PollInterval:  350 * time.Millisecond,
	StartDelay:    400 * time.Millisecond,
	SettleDelay:   200 * time.Millisecond,
	Steps: []Step{
		{Target: cardTarget("card-header"), TitleKey: "ctour.step1.title", DescriptionKey: "ctour.step1.desc", Placement: SideBottom},
		{Target: cardTarget("basic-settings"), TitleKey: "ctour.step2.title", DescriptionKey: "ctour.step2.desc", Placement: SideLeft, ExpandSection: "basic"},
		{Target: cardTarget("input-field"), TitleKey: "ctour.step3.title", DescriptionKey: "ctour.step3.desc", Placement: SideLeft, ExpandSection: "basic"},
		{Target: cardTarget("delay-setting"), TitleKey: "ctour.step4.title", DescriptionKey: "ctour.step4.desc", Placement: SideLeft, ExpandSection: "timing"},
		{Target: cardTarget("retry-setting"), TitleKey: "ctour.step5.title", DescriptionKey: "ctour.step5.desc", Placement: SideLeft, ExpandSection: "errors", RequireAdvanced: true},
		{Target: cardTarget("advanced-toggle"), TitleKey: "ctour.step6.title", DescriptionKey: "ctour.step6.desc", Placement: SideLeft},
		{Target: cardTarget("execution-mode"), TitleKey: "ctour.step7.title", DescriptionKey: "ctour.step7.desc", Placement: SideLeft, ExpandSection: "execution", RequireAdvanced: true},
		{Target: cardTarget("apply-button"), TitleKey: "ctour.step8.title", DescriptionKey: "ctour.step8.desc", Placement: SideTop},
	},
}

// Builtins lists every shipped tour.
func Builtins() []Definition {
	return []Definition{Dashboard, Builder, CardSettings}
}
