package store

import (
	"path/filepath"
	"testing"

	"github.com/siherrmann/checkmate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "checklists"), nil)
	require.NoError(t, err, "Expected NewStore to not return an error")
	return s
}

func TestNewStore(t *testing.T) {
	t.Run("Creates directory and record files", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "checklists")

		s, err := NewStore(dir, nil)

		assert.NoError(t, err)
		require.NotNil(t, s)

		questions, err := s.ListQuestions()
		assert.NoError(t, err, "Expected the questions file to be readable")
		assert.Empty(t, questions)
	})

	t.Run("Reopening an existing store keeps records", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "checklists")
		s, err := NewStore(dir, nil)
		require.NoError(t, err)

		question := &model.Question{Text: "Is there a privacy policy?"}
		require.NoError(t, s.CreateQuestion(question))

		reopened, err := NewStore(dir, nil)
		require.NoError(t, err)

		questions, err := reopened.ListQuestions()
		require.NoError(t, err)
		assert.Len(t, questions, 1, "Expected the record to survive reopening")
	})
}

func TestStoreQuestions(t *testing.T) {
	s := newTestStore(t)

	t.Run("Create assigns id and timestamps", func(t *testing.T) {
		question := &model.Question{Text: "What is the retention period?", Type: model.QuestionTypeText}

		err := s.CreateQuestion(question)

		assert.NoError(t, err)
		assert.NotEmpty(t, question.ID, "Expected an id to be assigned")
		assert.False(t, question.CreatedAt.IsZero(), "Expected CreatedAt to be set")
		assert.Equal(t, question.CreatedAt, question.UpdatedAt)
	})

	t.Run("Get returns the stored question", func(t *testing.T) {
		question := &model.Question{Text: "Who is the data protection officer?"}
		require.NoError(t, s.CreateQuestion(question))

		stored, err := s.GetQuestion(question.ID)

		require.NoError(t, err)
		assert.Equal(t, question.Text, stored.Text)
	})

	t.Run("Get unknown id returns ErrNotFound", func(t *testing.T) {
		_, err := s.GetQuestion("missing")

		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Update replaces fields and refreshes UpdatedAt", func(t *testing.T) {
		question := &model.Question{Text: "Original text"}
		require.NoError(t, s.CreateQuestion(question))

		question.Text = "Updated text"
		err := s.UpdateQuestion(question)

		require.NoError(t, err)
		stored, err := s.GetQuestion(question.ID)
		require.NoError(t, err)
		assert.Equal(t, "Updated text", stored.Text)
		assert.True(t, !stored.UpdatedAt.Before(stored.CreatedAt), "Expected UpdatedAt to be refreshed")
	})

	t.Run("Delete removes the question", func(t *testing.T) {
		question := &model.Question{Text: "To be deleted"}
		require.NoError(t, s.CreateQuestion(question))

		deleted, err := s.DeleteQuestion(question.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		deleted, err = s.DeleteQuestion(question.ID)
		require.NoError(t, err)
		assert.False(t, deleted, "Expected repeated delete to report nothing deleted")
	})
}

func TestStoreConditions(t *testing.T) {
	s := newTestStore(t)

	t.Run("Create and list conditions", func(t *testing.T) {
		condition := &model.Condition{Text: "Must name a contact person", Type: model.ConditionTypeMustContain}

		err := s.CreateCondition(condition)
		require.NoError(t, err)
		assert.NotEmpty(t, condition.ID)

		conditions, err := s.ListConditions()
		require.NoError(t, err)
		assert.Len(t, conditions, 1)
	})

	t.Run("Update unknown condition returns ErrNotFound", func(t *testing.T) {
		err := s.UpdateCondition(&model.Condition{ID: "missing", Text: "x"})

		assert.Error(t, err)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoreTemplates(t *testing.T) {
	s := newTestStore(t)

	question := &model.Question{Text: "Is the vendor named?"}
	require.NoError(t, s.CreateQuestion(question))
	condition := &model.Condition{Text: "Must include a signature"}
	require.NoError(t, s.CreateCondition(condition))

	t.Run("CreateTemplate copies questions and conditions by value", func(t *testing.T) {
		template, err := s.CreateTemplate("Vendor checklist", "Checks vendor contracts", []string{question.ID}, []string{condition.ID})

		require.NoError(t, err)
		assert.NotEmpty(t, template.ID)
		require.Len(t, template.Questions, 1)
		require.Len(t, template.Conditions, 1)

		// Edit the source question; the template must not change
		question.Text = "Edited after template creation"
		require.NoError(t, s.UpdateQuestion(question))

		stored, err := s.GetTemplate(template.ID)
		require.NoError(t, err)
		assert.Equal(t, "Is the vendor named?", stored.Questions[0].Text, "Expected the template copy to be unaffected by later edits")
	})

	t.Run("CreateTemplate skips unresolvable ids", func(t *testing.T) {
		template, err := s.CreateTemplate("Sparse checklist", "", []string{question.ID, "missing"}, []string{"also-missing"})

		require.NoError(t, err)
		assert.Len(t, template.Questions, 1, "Expected the unknown question id to be skipped")
		assert.Empty(t, template.Conditions, "Expected the unknown condition id to be skipped")
	})

	t.Run("Delete template", func(t *testing.T) {
		template, err := s.CreateTemplate("Short lived", "", nil, nil)
		require.NoError(t, err)

		deleted, err := s.DeleteTemplate(template.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = s.GetTemplate(template.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestStoreResults(t *testing.T) {
	s := newTestStore(t)

	t.Run("SaveResult assigns id when empty", func(t *testing.T) {
		result := &model.ChecklistResult{ChecklistID: "tpl-1", DocumentFilename: "doc.pdf"}

		err := s.SaveResult(result)

		require.NoError(t, err)
		assert.NotEmpty(t, result.ID)
		assert.False(t, result.CreatedAt.IsZero())
	})

	t.Run("ListResults filters by checklist id", func(t *testing.T) {
		require.NoError(t, s.SaveResult(&model.ChecklistResult{ChecklistID: "tpl-1", DocumentFilename: "a.pdf"}))
		require.NoError(t, s.SaveResult(&model.ChecklistResult{ChecklistID: "tpl-2", DocumentFilename: "b.pdf"}))

		all, err := s.ListResults("")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 3)

		filtered, err := s.ListResults("tpl-2")
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "b.pdf", filtered[0].DocumentFilename)
	})

	t.Run("GetResult returns the stored result", func(t *testing.T) {
		result := &model.ChecklistResult{ChecklistID: "tpl-3", DocumentFilename: "c.pdf"}
		require.NoError(t, s.SaveResult(result))

		stored, err := s.GetResult(result.ID)

		require.NoError(t, err)
		assert.Equal(t, "c.pdf", stored.DocumentFilename)
	})
}
