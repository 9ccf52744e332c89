package memdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func scheduleDoc(id string, days ...string) bson.M {
	dayList := make(bson.A, len(days))
	for i, d := range days {
		dayList[i] = d
	}
	return normalizeDocument(bson.M{
		"_id": id,
		"schedule_details": bson.M{
			"days": dayList,
		},
	})
}

func TestAggregate_Unwind(t *testing.T) {
	t.Run("sequence emits one document per element", func(t *testing.T) {
		out, err := Aggregate(
			[]bson.M{scheduleDoc("Chess Club", "Monday", "Friday")},
			[]bson.M{{"$unwind": "$schedule_details.days"}},
		)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "Monday", out[0]["schedule_details"].(bson.M)["days"])
		assert.Equal(t, "Friday", out[1]["schedule_details"].(bson.M)["days"])
	})

	t.Run("outputs are independently owned", func(t *testing.T) {
		out, err := Aggregate(
			[]bson.M{scheduleDoc("Chess Club", "Monday", "Friday")},
			[]bson.M{{"$unwind": "$schedule_details.days"}},
		)
		require.NoError(t, err)
		out[0]["schedule_details"].(bson.M)["days"] = "Sunday"
		assert.Equal(t, "Friday", out[1]["schedule_details"].(bson.M)["days"])
	})

	t.Run("non-sequence passes through unchanged", func(t *testing.T) {
		doc := normalizeDocument(bson.M{"_id": "x", "day": "Monday"})
		out, err := Aggregate([]bson.M{doc}, []bson.M{{"$unwind": "$day"}})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Monday", out[0]["day"])
	})

	t.Run("absent path drops the document", func(t *testing.T) {
		doc := normalizeDocument(bson.M{"_id": "x"})
		out, err := Aggregate([]bson.M{doc}, []bson.M{{"$unwind": "$days"}})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("empty sequence drops the document", func(t *testing.T) {
		doc := normalizeDocument(bson.M{"_id": "x", "days": bson.A{}})
		out, err := Aggregate([]bson.M{doc}, []bson.M{{"$unwind": "$days"}})
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestAggregate_Group(t *testing.T) {
	t.Run("distinct days across documents", func(t *testing.T) {
		docs := []bson.M{
			scheduleDoc("Chess Club", "Monday", "Friday"),
			scheduleDoc("Math Club", "Tuesday"),
			scheduleDoc("Drama Club", "Monday", "Wednesday"),
			scheduleDoc("Debate Team", "Friday"),
			scheduleDoc("Science Olympiad", "Saturday"),
		}

		out, err := Aggregate(docs, []bson.M{
			{"$unwind": "$schedule_details.days"},
			{"$group": bson.M{"_id": "$schedule_details.days"}},
		})
		require.NoError(t, err)

		var days []string
		for _, doc := range out {
			days = append(days, doc["_id"].(string))
		}
		assert.ElementsMatch(t, []string{"Monday", "Tuesday", "Wednesday", "Friday", "Saturday"}, days)
	})

	t.Run("group output has only _id", func(t *testing.T) {
		out, err := Aggregate(
			[]bson.M{normalizeDocument(bson.M{"_id": "x", "role": "teacher", "extra": 1})},
			[]bson.M{{"$group": bson.M{"_id": "$role"}}},
		)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, bson.M{"_id": "teacher"}, out[0])
	})

	t.Run("absent keys form their own group", func(t *testing.T) {
		out, err := Aggregate(
			[]bson.M{
				normalizeDocument(bson.M{"_id": "a", "role": "teacher"}),
				normalizeDocument(bson.M{"_id": "b"}),
				normalizeDocument(bson.M{"_id": "c"}),
			},
			[]bson.M{{"$group": bson.M{"_id": "$role"}}},
		)
		require.NoError(t, err)
		assert.Len(t, out, 2)
	})

	t.Run("literal key collapses everything", func(t *testing.T) {
		out, err := Aggregate(
			[]bson.M{
				normalizeDocument(bson.M{"_id": "a"}),
				normalizeDocument(bson.M{"_id": "b"}),
			},
			[]bson.M{{"$group": bson.M{"_id": "all"}}},
		)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "all", out[0]["_id"])
	})

	t.Run("missing _id expression is an error", func(t *testing.T) {
		_, err := Aggregate([]bson.M{}, []bson.M{{"$group": bson.M{}}})
		require.Error(t, err)
	})
}

func TestAggregate_Sort(t *testing.T) {
	t.Run("multi-key sort, first key dominates", func(t *testing.T) {
		docs := []bson.M{
			normalizeDocument(bson.M{"_id": int64(1), "a": 1, "b": 2}),
			normalizeDocument(bson.M{"_id": int64(2), "a": 1, "b": 1}),
		}

		out, err := Aggregate(docs, []bson.M{
			{"$sort": bson.D{{Key: "a", Value: 1}, {Key: "b", Value: 1}}},
		})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, int64(2), out[0]["_id"])
		assert.Equal(t, int64(1), out[1]["_id"])
	})

	t.Run("descending direction", func(t *testing.T) {
		docs := []bson.M{
			normalizeDocument(bson.M{"_id": "a", "n": 1}),
			normalizeDocument(bson.M{"_id": "b", "n": 3}),
			normalizeDocument(bson.M{"_id": "c", "n": 2}),
		}
		out, err := Aggregate(docs, []bson.M{{"$sort": bson.M{"n": -1}}})
		require.NoError(t, err)
		assert.Equal(t, "b", out[0]["_id"])
		assert.Equal(t, "c", out[1]["_id"])
		assert.Equal(t, "a", out[2]["_id"])
	})

	t.Run("absent values sort as empty", func(t *testing.T) {
		docs := []bson.M{
			normalizeDocument(bson.M{"_id": "a", "name": "zebra"}),
			normalizeDocument(bson.M{"_id": "b"}),
		}
		out, err := Aggregate(docs, []bson.M{{"$sort": bson.M{"name": 1}}})
		require.NoError(t, err)
		assert.Equal(t, "b", out[0]["_id"])
	})

	t.Run("stable within equal keys", func(t *testing.T) {
		docs := []bson.M{
			normalizeDocument(bson.M{"_id": "first", "n": 1}),
			normalizeDocument(bson.M{"_id": "second", "n": 1}),
		}
		out, err := Aggregate(docs, []bson.M{{"$sort": bson.M{"n": 1}}})
		require.NoError(t, err)
		assert.Equal(t, "first", out[0]["_id"])
		assert.Equal(t, "second", out[1]["_id"])
	})

	t.Run("multi-key map spec is rejected", func(t *testing.T) {
		_, err := Aggregate([]bson.M{}, []bson.M{{"$sort": bson.M{"a": 1, "b": 1}}})
		require.Error(t, err)
	})

	t.Run("bad direction is an error", func(t *testing.T) {
		_, err := Aggregate([]bson.M{}, []bson.M{{"$sort": bson.M{"a": 2}}})
		require.Error(t, err)
	})
}

func TestAggregate_StageValidation(t *testing.T) {
	t.Run("unknown stage", func(t *testing.T) {
		_, err := Aggregate([]bson.M{}, []bson.M{{"$lookup": bson.M{}}})
		require.ErrorIs(t, err, ErrUnsupportedStage)
	})

	t.Run("stage with two keys", func(t *testing.T) {
		_, err := Aggregate([]bson.M{}, []bson.M{{"$unwind": "$a", "$group": bson.M{"_id": nil}}})
		require.Error(t, err)
	})

	t.Run("full distinct-days pipeline with sort", func(t *testing.T) {
		docs := []bson.M{
			scheduleDoc("a", "Monday", "Friday"),
			scheduleDoc("b", "Friday", "Saturday"),
		}
		out, err := Aggregate(docs, []bson.M{
			{"$unwind": "$schedule_details.days"},
			{"$group": bson.M{"_id": "$schedule_details.days"}},
			{"$sort": bson.D{{Key: "_id", Value: 1}}},
		})
		require.NoError(t, err)

		var days []string
		for _, doc := range out {
			days = append(days, doc["_id"].(string))
		}
		assert.Equal(t, []string{"Friday", "Monday", "Saturday"}, days)
	})
}
