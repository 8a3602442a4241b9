package service

import (
	"sync"
	"work-tax-tracker/internal/models"
)

// ClassifiedRecord - запись вместе с производными признаками
type ClassifiedRecord struct {
	models.WorkLog
	models.Classification
}

// Classifier кэширует классификацию по отпечатку записи.
// После массового редактирования отпечаток устаревает, поэтому кэш нужно сбрасывать.
type Classifier struct {
	mu    sync.Mutex
	cache map[string]models.Classification
}

func NewClassifier() *Classifier {
	return &Classifier{cache: make(map[string]models.Classification)}
}

func (c *Classifier) Classify(w *models.WorkLog) models.Classification {
	if w.Fingerprint == "" {
		return models.Classify(w)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if cached, ok := c.cache[w.Fingerprint]; ok {
		return cached
	}

	result := models.Classify(w)
	c.cache[w.Fingerprint] = result
	return result
}

// ClassifyAll классифицирует набор записей
func (c *Classifier) ClassifyAll(logs []models.WorkLog) []ClassifiedRecord {
	result := make([]ClassifiedRecord, 0, len(logs))
	for i := range logs {
		result = append(result, ClassifiedRecord{
			WorkLog:        logs[i],
			Classification: c.Classify(&logs[i]),
		})
	}
	return result
}

// Invalidate сбрасывает кэш
func (c *Classifier) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]models.Classification)
}

// Size - количество закэшированных записей
func (c *Classifier) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
