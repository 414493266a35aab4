// Рисует PNG недели на тестовых данных, без БД
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/controller/render"
	"github.com/Freeeeeet/time_tracker/internal/model"
)

func main() {
	out := flag.String("out", "week.png", "output file")
	flag.Parse()

	now := time.Now().UTC()
	week := model.WeekOf(now)
	day := func(i int) time.Time { return week.Start.AddDate(0, 0, i) }

	work := &model.Category{ID: 1, Name: "Работа", Color: "#4361ee"}
	study := &model.Category{ID: 2, Name: "Учёба", Color: "#2a9d8f"}
	sport := &model.Category{ID: 3, Name: "Спорт", Color: "#e76f51"}

	var nextID int64
	event := func(c *model.Category, t model.EventType, d, fromHour, fromMin, minutes int, title string) *model.Event {
		nextID++
		start := day(d).Add(time.Duration(fromHour)*time.Hour + time.Duration(fromMin)*time.Minute)
		return &model.Event{
			ID:            nextID,
			CategoryID:    &c.ID,
			Title:         title,
			StartTime:     start,
			EndTime:       start.Add(time.Duration(minutes) * time.Minute),
			Type:          t,
			Source:        model.EventSourceWeb,
			CategoryName:  c.Name,
			CategoryColor: c.Color,
		}
	}

	events := []*model.Event{
		// Понедельник
		event(work, model.EventTypePlan, 0, 9, 0, 180, "Спринт"),
		event(work, model.EventTypeFact, 0, 9, 30, 150, "Спринт"),
		event(sport, model.EventTypePlan, 0, 19, 0, 60, "Зал"),
		// Вторник
		event(study, model.EventTypePlan, 1, 10, 0, 90, "Лекция"),
		event(study, model.EventTypeFact, 1, 10, 0, 90, "Лекция"),
		// Среда
		event(work, model.EventTypePlan, 2, 14, 0, 120, "Ревью"),
		event(work, model.EventTypeFact, 2, 14, 30, 60, "Ревью"),
		// Пятница
		event(sport, model.EventTypeFact, 4, 18, 0, 45, "Бег"),
	}

	view := model.BuildWeekView(week, events)

	imageData, err := render.WeekImage(view, now)
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *out)
	fmt.Printf("📅 Неделя %s: %s - %s\n", week.ID(), week.Start.Format("02.01.2006"), week.End.Format("02.01.2006"))
	fmt.Printf("📊 План: %d мин, факт: %d мин\n", view.PlanMinutes, view.FactMinutes)
}
