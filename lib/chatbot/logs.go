package chatbot

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"hr-agent-backend/lib/docstore"
)

const (
	DefaultLogLimit = 50
	MaxLogLimit     = 500
	DefaultLogDays  = 7
	MaxLogDays      = 90
)

// LogEntry is one exchange stored in Chatbot_Logs.
type LogEntry struct {
	ID        string                 `json:"_id" bson:"-"`
	UserQuery string                 `json:"user_query" bson:"user_query"`
	Response  string                 `json:"response" bson:"response"`
	QueryType string                 `json:"query_type" bson:"query_type"`
	Timestamp string                 `json:"timestamp" bson:"timestamp"`
	Metadata  map[string]interface{} `json:"metadata" bson:"metadata"`
}

type LogFilter struct {
	QueryType string `query:"query_type"`
	Limit     int64  `query:"limit"`
	Days      int    `query:"days"`
}

func (f LogFilter) normalized() LogFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultLogLimit
	}
	if f.Limit > MaxLogLimit {
		f.Limit = MaxLogLimit
	}
	if f.Days <= 0 {
		f.Days = DefaultLogDays
	}
	if f.Days > MaxLogDays {
		f.Days = MaxLogDays
	}
	return f
}

type TypeCount struct {
	QueryType string `json:"query_type"`
	Count     int64  `json:"count"`
}

type LogStatistics struct {
	Total                 int64       `json:"total"`
	QueryTypeDistribution []TypeCount `json:"query_type_distribution"`
}

type LogPage struct {
	Logs       []LogEntry    `json:"data"`
	Statistics LogStatistics `json:"statistics"`
}

type LogStore interface {
	Append(ctx context.Context, entry LogEntry) error
	List(ctx context.Context, filter LogFilter) (LogPage, error)
}

func NewLogStore(store docstore.Provider, now func() time.Time) LogStore {
	if now == nil {
		now = time.Now
	}
	return &logStore{store: store, now: now}
}

type logStore struct {
	store docstore.Provider
	now   func() time.Time
}

func (s logStore) Append(ctx context.Context, entry LogEntry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = s.now().Format("2006-01-02T15:04:05")
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]interface{}{}
	}
	_, err := s.store.InsertOne(ctx, docstore.ChatbotLogsCollection, entry)
	return errors.Wrap(err, "append chatbot log")
}

// List returns the newest logs within the last Days days and the per type counts of that window.
func (s logStore) List(ctx context.Context, filter LogFilter) (LogPage, error) {
	filter = filter.normalized()
	query := bson.M{
		"timestamp": bson.M{"$gte": s.now().AddDate(0, 0, -filter.Days).Format("2006-01-02T15:04:05")},
	}
	if filter.QueryType != "" {
		query["query_type"] = filter.QueryType
	}
	recs, err := s.store.Find(ctx, docstore.ChatbotLogsCollection, query, docstore.FindOptions{
		Sort:  bson.D{{Key: "timestamp", Value: -1}},
		Limit: filter.Limit,
	})
	if err != nil {
		return LogPage{}, errors.Wrap(err, "read chatbot logs")
	}
	page := LogPage{Logs: make([]LogEntry, 0, len(recs))}
	for _, rec := range recs {
		var entry LogEntry
		if err = docstore.Decode(rec, &entry); err != nil {
			return LogPage{}, errors.Wrap(err, "decode chatbot log")
		}
		entry.ID = docstore.IDHex(rec)
		page.Logs = append(page.Logs, entry)
	}
	if page.Statistics.Total, err = s.store.CountDocuments(ctx, docstore.ChatbotLogsCollection, query); err != nil {
		return LogPage{}, errors.Wrap(err, "count chatbot logs")
	}
	groups, err := s.store.Aggregate(ctx, docstore.ChatbotLogsCollection, []bson.M{
		{"$match": query},
		{"$group": bson.M{"_id": "$query_type", "count": bson.M{"$sum": 1}}},
		{"$sort": bson.M{"count": -1}},
	})
	if err != nil {
		return LogPage{}, errors.Wrap(err, "chatbot log distribution")
	}
	page.Statistics.QueryTypeDistribution = make([]TypeCount, 0, len(groups))
	for _, g := range groups {
		v, _ := docstore.Get(g, "count")
		n, _ := docstore.Float(v)
		page.Statistics.QueryTypeDistribution = append(page.Statistics.QueryTypeDistribution,
			TypeCount{QueryType: docstore.GetString(g, "_id"), Count: int64(n)})
	}
	return page, nil
}
