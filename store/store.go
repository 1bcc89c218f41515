package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/checkmate/helper"
	"github.com/siherrmann/checkmate/model"
)

// ErrNotFound is returned when a stored record does not exist.
var ErrNotFound = fmt.Errorf("record not found")

const (
	questionsFile  = "questions.json"
	conditionsFile = "conditions.json"
	templatesFile  = "templates.json"
	resultsFile    = "results.json"
)

// Store persists questions, conditions, checklist templates and checklist
// results as JSON files in a directory. All operations are safe for
// concurrent use within one process.
type Store struct {
	path   string
	mu     sync.Mutex
	Logger *slog.Logger
}

// NewStore creates a new store rooted at path. The directory and the record
// files are created if they do not exist.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		path = "./data/checklists"
	}
	if logger == nil {
		logger = slog.Default()
	}

	err := os.MkdirAll(path, 0755)
	if err != nil {
		return nil, helper.NewError("create storage directory", err)
	}

	store := &Store{
		path:   path,
		Logger: logger,
	}

	for _, file := range []string{questionsFile, conditionsFile, templatesFile, resultsFile} {
		fullPath := filepath.Join(path, file)
		_, err := os.Stat(fullPath)
		if os.IsNotExist(err) {
			err = os.WriteFile(fullPath, []byte("[]"), 0644)
		}
		if err != nil && !os.IsExist(err) {
			return nil, helper.NewError("initialize storage file", err)
		}
	}

	logger.Info("Initialized store", slog.String("path", path))

	return store, nil
}

func readRecords[T any](s *Store, file string) ([]T, error) {
	data, err := os.ReadFile(filepath.Join(s.path, file))
	if err != nil {
		return nil, helper.NewError("read storage file", err)
	}

	var records []T
	err = json.Unmarshal(data, &records)
	if err != nil {
		return nil, helper.NewError("unmarshal storage file", err)
	}

	return records, nil
}

func writeRecords[T any](s *Store, file string, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return helper.NewError("marshal storage file", err)
	}

	err = os.WriteFile(filepath.Join(s.path, file), data, 0644)
	if err != nil {
		return helper.NewError("write storage file", err)
	}

	return nil
}

// CreateQuestion stores a new question, assigning its id and timestamps
func (s *Store) CreateQuestion(question *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := readRecords[model.Question](s, questionsFile)
	if err != nil {
		return err
	}

	question.ID = uuid.NewString()
	question.CreatedAt = time.Now()
	question.UpdatedAt = question.CreatedAt

	questions = append(questions, *question)
	return writeRecords(s, questionsFile, questions)
}

// GetQuestion retrieves a question by id
func (s *Store) GetQuestion(id string) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := readRecords[model.Question](s, questionsFile)
	if err != nil {
		return nil, err
	}

	for i := range questions {
		if questions[i].ID == id {
			return &questions[i], nil
		}
	}
	return nil, helper.NewError("get question", fmt.Errorf("%w: %s", ErrNotFound, id))
}

// ListQuestions retrieves all stored questions
func (s *Store) ListQuestions() ([]model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return readRecords[model.Question](s, questionsFile)
}

// UpdateQuestion replaces a stored question by id, refreshing its update time
func (s *Store) UpdateQuestion(question *model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := readRecords[model.Question](s, questionsFile)
	if err != nil {
		return err
	}

	for i := range questions {
		if questions[i].ID == question.ID {
			question.CreatedAt = questions[i].CreatedAt
			question.UpdatedAt = time.Now()
			questions[i] = *question
			return writeRecords(s, questionsFile, questions)
		}
	}
	return helper.NewError("update question", fmt.Errorf("%w: %s", ErrNotFound, question.ID))
}

// DeleteQuestion deletes a question by id. Returns false if it did not exist.
func (s *Store) DeleteQuestion(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions, err := readRecords[model.Question](s, questionsFile)
	if err != nil {
		return false, err
	}

	kept := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(questions) {
		return false, nil
	}

	return true, writeRecords(s, questionsFile, kept)
}

// CreateCondition stores a new condition, assigning its id and timestamps
func (s *Store) CreateCondition(condition *model.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conditions, err := readRecords[model.Condition](s, conditionsFile)
	if err != nil {
		return err
	}

	condition.ID = uuid.NewString()
	condition.CreatedAt = time.Now()
	condition.UpdatedAt = condition.CreatedAt

	conditions = append(conditions, *condition)
	return writeRecords(s, conditionsFile, conditions)
}

// GetCondition retrieves a condition by id
func (s *Store) GetCondition(id string) (*model.Condition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conditions, err := readRecords[model.Condition](s, conditionsFile)
	if err != nil {
		return nil, err
	}

	for i := range conditions {
		if conditions[i].ID == id {
			return &conditions[i], nil
		}
	}
	return nil, helper.NewError("get condition", fmt.Errorf("%w: %s", ErrNotFound, id))
}

// ListConditions retrieves all stored conditions
func (s *Store) ListConditions() ([]model.Condition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return readRecords[model.Condition](s, conditionsFile)
}

// UpdateCondition replaces a stored condition by id, refreshing its update time
func (s *Store) UpdateCondition(condition *model.Condition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conditions, err := readRecords[model.Condition](s, conditionsFile)
	if err != nil {
		return err
	}

	for i := range conditions {
		if conditions[i].ID == condition.ID {
			condition.CreatedAt = conditions[i].CreatedAt
			condition.UpdatedAt = time.Now()
			conditions[i] = *condition
			return writeRecords(s, conditionsFile, conditions)
		}
	}
	return helper.NewError("update condition", fmt.Errorf("%w: %s", ErrNotFound, condition.ID))
}

// DeleteCondition deletes a condition by id. Returns false if it did not exist.
func (s *Store) DeleteCondition(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conditions, err := readRecords[model.Condition](s, conditionsFile)
	if err != nil {
		return false, err
	}

	kept := make([]model.Condition, 0, len(conditions))
	for _, c := range conditions {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(conditions) {
		return false, nil
	}

	return true, writeRecords(s, conditionsFile, kept)
}

// CreateTemplate builds and stores a checklist template from stored question
// and condition ids. The questions and conditions are copied by value, so
// later edits do not change the template. Unresolvable ids are skipped.
func (s *Store) CreateTemplate(name string, description string, questionIDs []string, conditionIDs []string) (*model.ChecklistTemplate, error) {
	questions := make([]model.Question, 0, len(questionIDs))
	for _, id := range questionIDs {
		question, err := s.GetQuestion(id)
		if err != nil {
			s.Logger.Warn("Skipping unknown question for template", slog.String("question_id", id))
			continue
		}
		questions = append(questions, *question)
	}

	conditions := make([]model.Condition, 0, len(conditionIDs))
	for _, id := range conditionIDs {
		condition, err := s.GetCondition(id)
		if err != nil {
			s.Logger.Warn("Skipping unknown condition for template", slog.String("condition_id", id))
			continue
		}
		conditions = append(conditions, *condition)
	}

	template := &model.ChecklistTemplate{
		Name:        name,
		Description: description,
		Questions:   questions,
		Conditions:  conditions,
	}

	err := s.SaveTemplate(template)
	if err != nil {
		return nil, err
	}

	return template, nil
}

// SaveTemplate stores a fully built template, assigning its id and timestamps
func (s *Store) SaveTemplate(template *model.ChecklistTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := readRecords[model.ChecklistTemplate](s, templatesFile)
	if err != nil {
		return err
	}

	template.ID = uuid.NewString()
	template.CreatedAt = time.Now()
	template.UpdatedAt = template.CreatedAt

	templates = append(templates, *template)
	return writeRecords(s, templatesFile, templates)
}

// GetTemplate retrieves a template by id
func (s *Store) GetTemplate(id string) (*model.ChecklistTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := readRecords[model.ChecklistTemplate](s, templatesFile)
	if err != nil {
		return nil, err
	}

	for i := range templates {
		if templates[i].ID == id {
			return &templates[i], nil
		}
	}
	return nil, helper.NewError("get template", fmt.Errorf("%w: %s", ErrNotFound, id))
}

// ListTemplates retrieves all stored templates
func (s *Store) ListTemplates() ([]model.ChecklistTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return readRecords[model.ChecklistTemplate](s, templatesFile)
}

// DeleteTemplate deletes a template by id. Returns false if it did not exist.
func (s *Store) DeleteTemplate(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	templates, err := readRecords[model.ChecklistTemplate](s, templatesFile)
	if err != nil {
		return false, err
	}

	kept := make([]model.ChecklistTemplate, 0, len(templates))
	for _, t := range templates {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(templates) {
		return false, nil
	}

	return true, writeRecords(s, templatesFile, kept)
}

// SaveResult stores a checklist result, assigning an id if it has none
func (s *Store) SaveResult(result *model.ChecklistResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := readRecords[model.ChecklistResult](s, resultsFile)
	if err != nil {
		return err
	}

	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	result.CreatedAt = time.Now()

	results = append(results, *result)
	return writeRecords(s, resultsFile, results)
}

// GetResult retrieves a result by id
func (s *Store) GetResult(id string) (*model.ChecklistResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := readRecords[model.ChecklistResult](s, resultsFile)
	if err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].ID == id {
			return &results[i], nil
		}
	}
	return nil, helper.NewError("get result", fmt.Errorf("%w: %s", ErrNotFound, id))
}

// ListResults retrieves all stored results, optionally filtered by checklist id
func (s *Store) ListResults(checklistID string) ([]model.ChecklistResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results, err := readRecords[model.ChecklistResult](s, resultsFile)
	if err != nil {
		return nil, err
	}

	if checklistID == "" {
		return results, nil
	}

	filtered := make([]model.ChecklistResult, 0, len(results))
	for _, r := range results {
		if r.ChecklistID == checklistID {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}
