package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "quiz",
			objectType:  "link",
			identifier:  "AbC123",
			expectedKey: "quizcraft:quiz:link:AbC123",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "quiz",
			objectType:  "link",
			identifier:  "AbC123",
			paramsKey:   []string{},
			expectedKey: "quizcraft:quiz:link:AbC123",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "submission",
			objectType:  "list",
			identifier:  "quiz-1",
			paramsKey:   []string{"page1", "desc"},
			expectedKey: "quizcraft:submission:list:quiz-1:page1_desc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...))
		})
	}
}

func TestQuizByLinkKey(t *testing.T) {
	assert.Equal(t, "quizcraft:quiz:link:xyz", QuizByLinkKey("xyz"))
}
