package monitoring

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestInitIsIdempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init()
		Init()
	})
}

func TestObserveQuizCountsOutcomes(t *testing.T) {
	before := testutil.ToFloat64(QuizSubmissions.WithLabelValues("failure"))
	ObserveQuiz(0, 0, errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(QuizSubmissions.WithLabelValues("failure")))

	before = testutil.ToFloat64(QuizSubmissions.WithLabelValues("success"))
	ObserveQuiz(3, 5, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(QuizSubmissions.WithLabelValues("success")))
}
