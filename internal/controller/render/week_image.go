// Package render рисует неделю пользователя в PNG.
package render

import (
	"bytes"
	"image/color"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/time_tracker/internal/controller/formatting"
	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleRegular FontStyle = ""
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	footerHeight    = 40
	leftLabelsWidth = 80
	legendWidth     = 140
	dayPaddingX     = 4
	minEventHeight  = 8.0
	eventRadius     = 5.0
	shadowOffset    = 2.0
	totalDaysInWeek = 7
	hourPaddingTop  = 1
	hourPaddingBot  = 1
	defaultMinHour  = 8
	defaultMaxHour  = 20
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 22.0
	columnFontSize     = 12.0
	hourLabelFontSize  = 16.0
	eventTimeFontSize  = 13.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	dividerColor     = color.NRGBA{180, 180, 180, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{225, 225, 225, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	eventTextColor   = color.RGBA{20, 24, 28, 230}
	eventShadowColor = color.RGBA{0, 0, 0, 20}
	planAlpha        = uint8(110) // план - полупрозрачный, факт - сплошной
	factAlpha        = uint8(230)

	legendTextColor = color.RGBA{90, 95, 100, 220}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// loadFont выставляет шрифт Go нужного стиля или basicfont как fallback
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	fontStyle := FontStyleRegular
	if len(style) > 0 {
		fontStyle = style[0]
	}

	fontData := goregular.TTF
	if fontStyle == FontStyleBold {
		fontData = gobold.TTF
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[fontStyle]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData)
		if err != nil {
			fontsMu.Unlock()
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		cachedFonts[fontStyle] = parsed
	}
	fontsMu.Unlock()

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// WeekImage рисует неделю: каждый день разделён на колонки "план" и "факт",
// события окрашены в цвет категории. now задаёт подсветку текущего дня и линию времени.
func WeekImage(view *model.WeekView, now time.Time) ([]byte, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	highlightToday := view.Range.Contains(now)

	hours := calculateHourRange(view.Events)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight - footerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, view.Range)
	drawHourLabels(dc, hours, cellHeight)
	drawDays(dc, view, today, highlightToday, hours, dayWidth, dayHeight, cellHeight)
	if highlightToday {
		drawCurrentTimeLine(dc, now, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, view, dayWidth)

	return encodeImage(dc)
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(events []*model.Event) hourRange {
	minHour := 24
	maxHour := 0

	for _, e := range events {
		start := e.StartTime.UTC()
		end := e.EndTime.UTC()

		startH := start.Hour()
		endH := end.Hour()
		if end.Minute() > 0 || end.Second() > 0 {
			endH++
		}
		// событие через полночь рисуется до конца дня
		if end.YearDay() != start.YearDay() || end.Year() != start.Year() {
			endH = 24
		}
		if startH < minHour {
			minHour = startH
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 24 {
		endHour = 24
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок: номер недели и месяц(ы)
func drawHeader(dc *gg.Context, week model.WeekRange) {
	startMonth := week.Start.Month()
	endMonth := week.End.Month()

	title := formatting.MonthName(startMonth)
	if startMonth != endMonth {
		title += " - " + formatting.MonthName(endMonth)
	}
	title = week.ID() + "  " + title

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatting.FormatHour(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDays рисует все дни недели с событиями
func drawDays(dc *gg.Context, view *model.WeekView, today time.Time, highlightToday bool,
	hours hourRange, dayWidth, dayHeight int, cellHeight float64) {

	for dayIndex, day := range view.Range.Days() {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		isToday := highlightToday && day.Equal(today)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		halfWidth := float64(dayWidth) / 2
		bucket := view.Days[dayIndex]
		for _, e := range bucket.Plan {
			drawEvent(dc, e, day, x, y, halfWidth, hours, cellHeight, planAlpha)
		}
		for _, e := range bucket.Fact {
			drawEvent(dc, e, day, x+halfWidth, y, halfWidth, hours, cellHeight, factAlpha)
		}
	}
}

// drawDayBackground рисует фон дня и разделитель план/факт
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	mid := x + float64(dayWidth)/2
	dc.SetColor(dividerColor)
	dc.SetLineWidth(0.5)
	dc.DrawLine(mid, y, mid, y+float64(dayHeight))
	dc.Stroke()
}

// drawDayHeader рисует день недели, дату и подписи колонок
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	center := x + float64(dayWidth)/2

	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(formatting.WeekdayShort(date.Weekday())+" "+date.Format("02.01"), center, y-28, 0.5, 0)

	loadFont(dc, columnFontSize)
	dc.SetColor(legendTextColor)
	dc.DrawStringAnchored("план", x+float64(dayWidth)/4, y-8, 0.5, 0)
	dc.DrawStringAnchored("факт", x+float64(dayWidth)*3/4, y-8, 0.5, 0)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawEvent рисует одно событие в колонке шириной colWidth
func drawEvent(dc *gg.Context, e *model.Event, day time.Time, x, y, colWidth float64,
	hours hourRange, cellHeight float64, alpha uint8) {

	startHour := e.StartTime.UTC().Sub(day).Hours()
	endHour := e.EndTime.UTC().Sub(day).Hours()
	if endHour > float64(hours.end) {
		endHour = float64(hours.end)
	}

	eventY := y + (startHour-float64(hours.start))*cellHeight
	eventHeight := (endHour - startHour) * cellHeight
	if eventHeight < minEventHeight {
		eventHeight = minEventHeight
	}

	fill := parseHexColor(e.Color())
	fill.A = alpha
	width := colWidth - dayPaddingX*2
	left := x + dayPaddingX

	// Тень
	dc.SetColor(eventShadowColor)
	dc.DrawRoundedRectangle(left+shadowOffset, eventY+1+shadowOffset, width, eventHeight-2, eventRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(left, eventY+1, width, eventHeight-2, eventRadius)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(left, eventY+1, width, eventHeight-2, eventRadius)
	dc.Stroke()

	if eventHeight < 18 {
		return
	}

	loadFont(dc, eventTimeFontSize)
	dc.SetColor(eventTextColor)
	txtX := left + 4
	txtY := eventY + 15
	dc.DrawStringAnchored(e.StartTime.UTC().Format("15:04"), txtX, txtY, 0, 0)

	label := e.Title
	if label == "" {
		label = e.CategoryName
	}
	if label != "" && eventHeight > 34 {
		dc.DrawStringAnchored(truncate(label, 10), txtX, txtY+15, 0, 0)
	}
}

// truncate обрезает строку по рунам
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}

// parseHexColor разбирает "#RRGGBB"; некорректный цвет заменяется цветом по умолчанию
func parseHexColor(hex string) color.NRGBA {
	if !model.IsValidColor(hex) {
		hex = model.DefaultEventColor
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil {
		return color.NRGBA{67, 97, 238, 255}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.NRGBA, factor float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: 255,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0

	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	y := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), y)
	dc.Stroke()
}

// drawLegend рисует легенду справа: категории недели и итоги план/факт
func drawLegend(dc *gg.Context, view *model.WeekView, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 12)
	y := float64(headerHeight)

	loadFont(dc, legendItemFontSize, FontStyleBold)
	dc.SetColor(legendTextColor)
	dc.DrawStringAnchored("План: "+formatting.FormatDuration(view.PlanMinutes), legendX, y, 0, 0)
	dc.DrawStringAnchored("Факт: "+formatting.FormatDuration(view.FactMinutes), legendX, y+20, 0, 0)

	boxW := 18.0
	boxH := 12.0
	y += 48

	loadFont(dc, legendItemFontSize)
	for _, item := range legendCategories(view.Events) {
		dc.SetColor(parseHexColor(item.color))
		dc.DrawRoundedRectangle(legendX, y, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendTextColor)
		dc.DrawStringAnchored(truncate(item.name, 12), legendX+boxW+6, y+boxH/2, 0, 0.4)
		y += boxH + 12
	}
}

type legendItem struct {
	name  string
	color string
}

// legendCategories собирает уникальные категории в порядке появления
func legendCategories(events []*model.Event) []legendItem {
	seen := make(map[string]bool)
	var items []legendItem
	for _, e := range events {
		name := e.CategoryName
		if name == "" {
			name = "Без категории"
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		items = append(items, legendItem{name: name, color: e.Color()})
	}
	return items
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
