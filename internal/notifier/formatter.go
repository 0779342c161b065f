package notifier

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"StockScreener/internal/calculator"
	"StockScreener/internal/model"
	"StockScreener/internal/recorder"
)

// MaxMessageLen is the Telegram text limit.
const MaxMessageLen = 4096

// maxRows caps each digest section.
const maxRows = 15

func newBadge(isNew bool) string {
	if isNew {
		return "🆕 "
	}
	return ""
}

// section writes a titled block, new rows first. rows and fresh are parallel.
func section(b *strings.Builder, title string, rows []string, fresh []bool) {
	if len(rows) == 0 {
		return
	}
	newCount := 0
	for _, f := range fresh {
		if f {
			newCount++
		}
	}
	b.WriteString(fmt.Sprintf("<b>%s</b> (%d, %d new)\n", title, len(rows), newCount))

	written := 0
	for _, wantNew := range []bool{true, false} {
		for i, r := range rows {
			if fresh[i] != wantNew {
				continue
			}
			if written == maxRows {
				b.WriteString(fmt.Sprintf("  … %d more\n", len(rows)-written))
				b.WriteString("\n")
				return
			}
			b.WriteString("  " + newBadge(fresh[i]) + r + "\n")
			written++
		}
	}
	b.WriteString("\n")
}

// FormatConsolidation lists consolidation analyzer matches.
func FormatConsolidation(b *strings.Builder, r *model.ConsolidationReport) {
	if r == nil {
		return
	}
	rows := make([]string, len(r.Matches))
	fresh := make([]bool, len(r.Matches))
	for i, m := range r.Matches {
		line := fmt.Sprintf("%s %.2f | score %d/10 | %s (%.0f%%)",
			m.Symbol, m.CurrentPrice, m.Score.Total, html.EscapeString(m.Details.Name), m.Indicators.Pattern.Confidence*100)
		if m.NearLevel != nil {
			line += fmt.Sprintf(" | near %s %.2f", m.NearLevel.Kind, m.NearLevel.Level.Price)
		}
		line += " | volume " + calculator.ClassifyTrend(m.Indicators.VolumeTrend)
		rows[i], fresh[i] = line, m.IsNew
	}
	section(b, "📦 Consolidation", rows, fresh)
}

// FormatRange lists range scanner matches.
func FormatRange(b *strings.Builder, matches []model.RangeMatch) {
	rows := make([]string, len(matches))
	fresh := make([]bool, len(matches))
	for i, m := range matches {
		rows[i] = fmt.Sprintf("%s %.2f | %.2f%% over %d days", m.Symbol, m.CurrentPrice, m.PriceRange, m.Bars)
		fresh[i] = m.IsNew
	}
	section(b, "↔️ Range", rows, fresh)
}

// FormatTrendlines lists trendline scanner matches.
func FormatTrendlines(b *strings.Builder, matches []model.TrendlineMatch) {
	rows := make([]string, len(matches))
	fresh := make([]bool, len(matches))
	for i, m := range matches {
		arrow := "📈"
		if m.Trendline.Direction == model.DirectionDown {
			arrow = "📉"
		}
		line := fmt.Sprintf("%s %s %.2f | line %.2f (%+.2f%%) | %s, %d touches",
			arrow, m.Symbol, m.CurrentPrice, m.TrendlineValue, m.Distance, m.Trendline.Quality, m.Trendline.Touches)
		if m.VolumeConfirmed {
			line += " | vol ✅"
		}
		rows[i], fresh[i] = line, m.IsNew
	}
	section(b, "📐 Trendlines", rows, fresh)
}

func supportRows(matches []model.SupportMatch, withRSI bool) ([]string, []bool) {
	rows := make([]string, len(matches))
	fresh := make([]bool, len(matches))
	for i, m := range matches {
		line := fmt.Sprintf("%s %.2f | S%d %.2f (%+.2f%%)", m.Symbol, m.CurrentPrice, m.SupportLevel, m.SupportPrice, m.Difference)
		if withRSI {
			line += fmt.Sprintf(" | RSI %.2f", m.RSI)
		}
		rows[i], fresh[i] = line, m.IsNew
	}
	return rows, fresh
}

// FormatRSISupport lists oversold stocks near support.
func FormatRSISupport(b *strings.Builder, matches []model.SupportMatch) {
	rows, fresh := supportRows(matches, true)
	section(b, "🔻 RSI support", rows, fresh)
}

// FormatSupport lists stocks near a configured support.
func FormatSupport(b *strings.Builder, matches []model.SupportMatch) {
	rows, fresh := supportRows(matches, false)
	section(b, "🛡 Near support", rows, fresh)
}

// FormatStoploss lists held stocks near or below their stop-loss.
func FormatStoploss(b *strings.Builder, matches []model.StoplossMatch) {
	rows := make([]string, len(matches))
	fresh := make([]bool, len(matches))
	for i, m := range matches {
		mark := "⚠️"
		if m.IsBroken {
			mark = "🛑"
		}
		line := fmt.Sprintf("%s %s %.2f | SL %.2f (%+.2f%%) | buy %.2f (%+.2f%%)",
			mark, m.Symbol, m.CurrentPrice, m.StoplossPrice, m.StoplossDiff, m.BuyPrice, m.ReturnPercent)
		if m.Manual {
			line += " | manual"
		}
		if m.Candle.Pattern != "" {
			line += fmt.Sprintf(" | %s (%s)", html.EscapeString(m.Candle.Pattern), m.Candle.Direction)
		}
		if m.Candle.Trend != "" {
			line += " | " + m.Candle.Trend
		}
		rows[i], fresh[i] = line, m.IsNew
	}
	section(b, "🛑 Stop-loss", rows, fresh)
}

// FormatSupportPrediction lists the predicted support zones.
func FormatSupportPrediction(b *strings.Builder, predictions []model.SupportPrediction) {
	rows := make([]string, len(predictions))
	fresh := make([]bool, len(predictions))
	for i, p := range predictions {
		flags := ""
		if p.Bought {
			flags = " 💼"
		}
		rows[i] = fmt.Sprintf("%s%s %.2f | support %.2f (%+.2f%%) | %.0f%% | %s",
			p.Symbol, flags, p.CurrentPrice, p.Zone.Price, p.Distance, p.Zone.Confidence*100,
			html.EscapeString(strings.Join(p.Zone.Methods, ", ")))
		fresh[i] = p.IsNew
	}
	section(b, "🔮 Predicted support", rows, fresh)
}

// FormatRSIPivot lists the RSI pivot-trendline buy and sell signals.
func FormatRSIPivot(b *strings.Builder, matches []model.PivotMatch) {
	rows := make([]string, len(matches))
	fresh := make([]bool, len(matches))
	for i, m := range matches {
		mark, verb := "🟢", "above"
		if m.Signal.Kind == model.PivotSell {
			mark, verb = "🔴", "below"
		}
		flags := ""
		if m.Bought {
			flags = " 💼"
		}
		rows[i] = fmt.Sprintf("%s %s %s%s %.2f | %s %.2f (%.2f%%) | RSI %.2f/%.2f | %s",
			mark, m.Signal.Kind, m.Symbol, flags, m.Signal.Price, verb, m.Signal.LinePrice, m.Signal.Strength,
			m.Signal.RSIFast, m.Signal.RSISlow, m.Date.Format("2006-01-02"))
		fresh[i] = m.IsNew
	}
	section(b, "📶 RSI pivot signals", rows, fresh)
}

// FormatInstitutional lists stocks showing institutional activity.
func FormatInstitutional(b *strings.Builder, matches []model.ActivityMatch) {
	rows := make([]string, len(matches))
	fresh := make([]bool, len(matches))
	for i, m := range matches {
		side, score := m.Activity.Dominant()
		flags := ""
		if m.Bought {
			flags = " 💼"
		}
		line := fmt.Sprintf("%s%s %.2f | %s %.0f%%", m.Symbol, flags, m.CurrentPrice, side, score*100)
		if m.Tier > 0 {
			line += fmt.Sprintf(" | tier %.0f%%", m.Tier*100)
		}
		line += " | volume " + m.Activity.VolumeTrend
		if len(m.Activity.Patterns) > 0 {
			line += " | " + html.EscapeString(strings.Join(m.Activity.Patterns, ", "))
		}
		rows[i], fresh[i] = line, m.IsNew
	}
	section(b, "🏦 Institutional activity", rows, fresh)
}

// FormatHeatmap renders the weekly sector summary.
func FormatHeatmap(b *strings.Builder, sectors []model.HeatmapSector) {
	if len(sectors) == 0 {
		return
	}
	b.WriteString("<b>🌡 Sector heatmap</b>\n")
	for _, s := range sectors {
		b.WriteString(fmt.Sprintf("<b>%s</b> %+.2f%% | vol %.0f\n", html.EscapeString(s.Sector), s.AverageChange, s.TotalVolume))
		for _, st := range s.Stocks {
			b.WriteString(fmt.Sprintf("  %s %+.2f%% | vol %.0f | RSI %.0f\n", st.Symbol, st.PercentChange, st.TotalVolume, st.RSI))
		}
	}
	b.WriteString("\n")
}

// FormatScanReport renders the full digest of a scan run.
func FormatScanReport(r *model.ScanReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Screener digest</b> | %s\n", r.StartedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("%d symbols scanned\n\n", r.Symbols))

	before := b.Len()
	FormatConsolidation(&b, r.Consolidation)
	FormatRange(&b, r.Range)
	FormatTrendlines(&b, r.Trendlines)
	FormatRSISupport(&b, r.RSISupport)
	FormatSupport(&b, r.Support)
	FormatStoploss(&b, r.Stoploss)
	FormatSupportPrediction(&b, r.SupportPrediction)
	FormatRSIPivot(&b, r.RSIPivot)
	FormatInstitutional(&b, r.Institutional)
	FormatHeatmap(&b, r.Heatmap)
	if b.Len() == before {
		b.WriteString("No stocks matched today.\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatWatchlist renders the dashboard view.
func FormatWatchlist(rows []model.DashboardRow) string {
	if len(rows) == 0 {
		return "Watchlist is empty."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👀 <b>Watchlist</b> (%d)\n", len(rows)))
	for _, r := range rows {
		flags := ""
		if r.Levels.Bought {
			flags += " 💼"
		}
		if r.Levels.Watchlist {
			flags += " ⭐"
		}
		b.WriteString(fmt.Sprintf("%s%s %.2f", r.Symbol, flags, r.CurrentPrice))
		for i, sp := range r.Levels.Supports() {
			if sp > 0 {
				b.WriteString(fmt.Sprintf(" | S%d %+.2f%%", i+1, r.SupportDiffs[i]))
			}
		}
		if r.Levels.UpperLimit > 0 {
			b.WriteString(fmt.Sprintf(" | UL %+.2f%%", r.UpperLimitDiff))
		}
		if r.Levels.BuyPrice > 0 {
			b.WriteString(fmt.Sprintf(" | buy %.2f", r.Levels.BuyPrice))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatRuns renders recent scan runs.
func FormatRuns(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No scans recorded yet."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent scans</b>\n")
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s | %d symbols | %d hits (%d new)\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Symbols, r.Hits, r.NewHits))
	}
	return strings.TrimRight(b.String(), "\n")
}

// SplitMessage breaks text into chunks of at most limit bytes, preferring line
// boundaries. Lines longer than limit are cut on rune boundaries.
func SplitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
		}
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			parts = append(parts, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line) > limit {
			flush()
		}
		cur.WriteString(line)
	}
	flush()
	return parts
}
