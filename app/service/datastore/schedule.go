package datastore

import (
	"github.com/elliotchance/pie/v2"
)

func (s *Service) AddScheduleItem(title, date, timeOfDay, description string) (ScheduleItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc.Counters.Schedule++

	item := ScheduleItem{
		ID:          s.doc.Counters.Schedule,
		Title:       title,
		Date:        date,
		Time:        timeOfDay,
		Description: description,
		Completed:   false,
	}

	s.doc.Schedule = append(s.doc.Schedule, item)

	if err := s.save(); err != nil {
		return ScheduleItem{}, err
	}

	return item, nil
}

func (s *Service) ScheduleForDate(date string) []ScheduleItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return pie.Filter(s.doc.Schedule, func(item ScheduleItem) bool {
		return item.Date == date
	})
}

// UpcomingSchedule returns items dated today through today+days-1,
// matched by exact date string. A non-positive days defaults to 7.
func (s *Service) UpcomingSchedule(days int) []ScheduleItem {
	if days <= 0 {
		days = 7
	}

	today := s.now()

	upcoming := make(map[string]bool, days)
	for i := 0; i < days; i++ {
		upcoming[today.AddDate(0, 0, i).Format(dateLayout)] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return pie.Filter(s.doc.Schedule, func(item ScheduleItem) bool {
		return upcoming[item.Date]
	})
}

func (s *Service) MarkScheduleCompleted(id int, completed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Schedule {
		if s.doc.Schedule[i].ID == id {
			s.doc.Schedule[i].Completed = completed
			return s.save()
		}
	}

	return ErrNotFound
}

func (s *Service) DeleteScheduleItem(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.doc.Schedule {
		if s.doc.Schedule[i].ID == id {
			s.doc.Schedule = append(s.doc.Schedule[:i], s.doc.Schedule[i+1:]...)
			return s.save()
		}
	}

	return ErrNotFound
}
