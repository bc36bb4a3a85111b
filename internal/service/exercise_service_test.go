package service

import (
	"context"
	"encoding/json"
	"testing"

	"learngenix_backend/internal/model"
	"learngenix_backend/internal/repository"
	"learngenix_backend/internal/testutil"
	"learngenix_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNormalizeOptions(t *testing.T) {
	opts, err := NormalizeOptions(json.RawMessage(`["red", "green", "blue"]`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"red","b":"green","c":"blue"}`, string(opts))

	opts, err = NormalizeOptions(json.RawMessage(`{"x": 1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(opts))

	opts, err = NormalizeOptions(json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, opts)

	opts, err = NormalizeOptions(nil)
	require.NoError(t, err)
	assert.Nil(t, opts)

	_, err = NormalizeOptions(json.RawMessage(`"a string"`))
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestExerciseCreateDefaults(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewExerciseService(repository.NewExerciseRepository(db))
	teacher := testutil.CreateUser(t, db, "t@test.com", model.Teacher)

	ex, err := svc.Create(context.Background(), teacher, ExerciseCreateRequest{
		Title:     "Colors",
		Content:   "Pick one",
		Type:      model.MultipleChoice,
		SubjectID: strPtr(""),
		Options:   json.RawMessage(`["red","blue"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, model.Medium, ex.Difficulty)
	assert.Equal(t, model.DefaultExercisePoints, ex.Points)
	assert.Nil(t, ex.SubjectID)
	require.NotNil(t, ex.CreatedBy)
	assert.Equal(t, teacher.ID, *ex.CreatedBy)
	assert.JSONEq(t, `{"a":"red","b":"blue"}`, string(ex.Options))

	got, err := svc.Get(context.Background(), ex.ID)
	require.NoError(t, err)
	assert.Equal(t, "Colors", got.Title)
}

func TestExerciseUpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewExerciseService(repository.NewExerciseRepository(db))
	ctx := context.Background()
	ex := testutil.CreateExercise(t, db, nil)

	hard := model.Hard
	updated, err := svc.Update(ctx, ex.ID, ExerciseUpdateRequest{Difficulty: &hard})
	require.NoError(t, err)
	assert.Equal(t, model.Hard, updated.Difficulty)
	assert.Equal(t, ex.Title, updated.Title)
	require.NotNil(t, updated.CorrectAnswer)
	assert.Equal(t, "42", *updated.CorrectAnswer)

	_, err = svc.Update(ctx, model.GenerateUUID(), ExerciseUpdateRequest{Difficulty: &hard})
	assert.ErrorIs(t, err, util.ErrExerciseNotFound)

	require.NoError(t, svc.Delete(ctx, ex.ID))
	assert.ErrorIs(t, svc.Delete(ctx, ex.ID), util.ErrExerciseNotFound)
	_, err = svc.Get(ctx, ex.ID)
	assert.ErrorIs(t, err, util.ErrExerciseNotFound)
}

func TestExerciseBlankCorrectAnswerStoredAsNull(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewExerciseService(repository.NewExerciseRepository(db))
	ctx := context.Background()
	teacher := testutil.CreateUser(t, db, "t@test.com", model.Teacher)

	ex, err := svc.Create(ctx, teacher, ExerciseCreateRequest{
		Title:         "Essay",
		Content:       "Write freely",
		Type:          model.OpenEnded,
		CorrectAnswer: strPtr("   "),
	})
	require.NoError(t, err)
	assert.Nil(t, ex.CorrectAnswer)

	updated, err := svc.Update(ctx, ex.ID, ExerciseUpdateRequest{CorrectAnswer: strPtr("42")})
	require.NoError(t, err)
	require.NotNil(t, updated.CorrectAnswer)
	assert.Equal(t, "42", *updated.CorrectAnswer)

	updated, err = svc.Update(ctx, ex.ID, ExerciseUpdateRequest{CorrectAnswer: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.CorrectAnswer)

	got, err := svc.Get(ctx, ex.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CorrectAnswer)
}

func TestNextSkipsAnsweredExercises(t *testing.T) {
	db := testutil.NewDB(t)
	exercises := NewExerciseService(repository.NewExerciseRepository(db))
	submissions := newSubmissionService(db, nil)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "ana@test.com", model.Student)

	for i := 0; i < 3; i++ {
		testutil.CreateExercise(t, db, nil)
	}
	testutil.CreateExercise(t, db, func(e *model.Exercise) { e.Difficulty = model.Hard })

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		ex, err := exercises.Next(ctx, user, NextRequest{})
		require.NoError(t, err)
		assert.Equal(t, model.Medium, ex.Difficulty)
		assert.False(t, seen[ex.ID], "exercise %s returned twice", ex.ID)
		seen[ex.ID] = true

		_, err = submissions.Submit(ctx, user, SubmitRequest{ExerciseID: ex.ID, Answer: "x"})
		require.NoError(t, err)
	}

	_, err := exercises.Next(ctx, user, NextRequest{})
	assert.ErrorIs(t, err, util.ErrNoExercises)

	ex, err := exercises.Next(ctx, user, NextRequest{Difficulty: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, model.Hard, ex.Difficulty)
}

func TestNextSubjectFilter(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewExerciseService(repository.NewExerciseRepository(db))
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "ana@test.com", model.Student)

	subject := model.GenerateUUID()
	inSubject := testutil.CreateExercise(t, db, func(e *model.Exercise) { e.SubjectID = &subject })

	ex, err := svc.Next(ctx, user, NextRequest{SubjectID: &subject})
	require.NoError(t, err)
	assert.Equal(t, inSubject.ID, ex.ID)

	_, err = svc.Next(ctx, user, NextRequest{SubjectID: strPtr(model.GenerateUUID())})
	assert.ErrorIs(t, err, util.ErrNoExercises)

	// 非法的 subject_id 等同于未传
	ex, err = svc.Next(ctx, user, NextRequest{SubjectID: strPtr("not-a-uuid")})
	require.NoError(t, err)
	assert.Equal(t, inSubject.ID, ex.ID)
}
