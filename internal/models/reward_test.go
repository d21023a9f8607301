package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCriteriaValidate(t *testing.T) {
	topicID := primitive.NewObjectID().Hex()

	testCases := []struct {
		name     string
		criteria Criteria
		valid    bool
	}{
		{"perfect score", Criteria{Type: CriteriaPerfectScore}, true},
		{"topic completion", Criteria{Type: CriteriaTopicCompletion, TopicID: topicID}, true},
		{"topic completion without topic", Criteria{Type: CriteriaTopicCompletion}, false},
		{"topic completion with bad id", Criteria{Type: CriteriaTopicCompletion, TopicID: "nope"}, false},
		{"unknown type", Criteria{Type: "streak"}, false},
		{"empty", Criteria{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.criteria.Validate()
			if tc.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected an error")
			}
		})
	}
}
