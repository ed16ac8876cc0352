// attune-mcp exposes attune as an MCP stdio server.
//
// Environment variables:
//
//	ATTUNE_DB_PATH — SQLite database path (default: ./data/attune.db)
//
// Usage:
//
//	go install github.com/goblincore/attune/cmd/attune-mcp
//	attune-mcp
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/goblincore/attune"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	dbPath := os.Getenv("ATTUNE_DB_PATH")
	if dbPath == "" {
		dbPath = "./data/attune.db"
	}

	engine, err := attune.New(attune.Config{DBPath: dbPath})
	if err != nil {
		log.Fatalf("attune init: %v", err)
	}
	defer engine.Close()

	srv := &checkinServer{
		engine:   engine,
		sessions: make(map[string]*attune.Session),
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "attune-mcp",
		Version: "1.0.0",
	}, nil)

	// --- Tool: start_checkin ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_checkin",
		Description: "Open a check-in session for a user. Returns a session ID and the opening question, personalized to the user's learned preferences and the time of day.",
	}, srv.startCheckin)

	// --- Tool: send_reply ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "send_reply",
		Description: "Send a user reply into an open session. Returns the next agent message: a follow-up question, a mood request, crisis support messaging, or the closing message.",
	}, srv.sendReply)

	// --- Tool: new_topic ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "new_topic",
		Description: "Abandon the current line of questioning and pick a fresh prompt for the session, avoiding topics already covered.",
	}, srv.newTopic)

	// --- Tool: end_checkin ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "end_checkin",
		Description: "Close a session without a closing message and return a summary of the conversation.",
	}, srv.endCheckin)

	// --- Tool: get_insights ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_insights",
		Description: "Summarize a user's recent replies: top emotions, mood distribution, engagement, streak, and conversation stats.",
	}, srv.getInsights)

	// --- Tool: mood_trends ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "mood_trends",
		Description: "Per-day average mood over the last N days.",
	}, srv.moodTrends)

	// --- Tool: recommend_prompts ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "recommend_prompts",
		Description: "Rank the current time-of-day's prompts for a user and explain why each fits.",
	}, srv.recommendPrompts)

	// --- Tool: inspect_profile ---
	mcp.AddTool(server, &mcp.Tool{
		Name:        "inspect_profile",
		Description: "Show a user's learned preference model: style, tone, categories, depth, time-of-day affinities, and top emotional words.",
	}, srv.inspectProfile)

	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("attune-mcp: %v", err)
	}
}

// checkinServer tracks open sessions across tool calls.
type checkinServer struct {
	engine   *attune.Engine
	mu       sync.Mutex
	sessions map[string]*attune.Session
}

func (s *checkinServer) session(id string) (*attune.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// --- Input types ---

type startCheckinInput struct {
	UserID string `json:"user_id" jsonschema:"User ID to check in with"`
}

type sendReplyInput struct {
	SessionID string `json:"session_id"     jsonschema:"Session ID from start_checkin"`
	Text      string `json:"text"           jsonschema:"The user's reply text"`
	Mood      int    `json:"mood,omitempty" jsonschema:"Optional mood rating 1-10"`
}

type sessionInput struct {
	SessionID string `json:"session_id" jsonschema:"Session ID from start_checkin"`
}

type insightsInput struct {
	UserID string `json:"user_id"        jsonschema:"User ID"`
	Days   int    `json:"days,omitempty" jsonschema:"Time range in days (default 30)"`
}

type profileInput struct {
	UserID string `json:"user_id" jsonschema:"User ID"`
}

// --- Handlers ---

func (s *checkinServer) startCheckin(ctx context.Context, req *mcp.CallToolRequest, input startCheckinInput) (*mcp.CallToolResult, any, error) {
	sess, err := s.engine.StartSession(input.UserID)
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return textResult(jsonString(map[string]any{
		"session_id": id,
		"agent":      turnToMap(sess.Opening()),
	})), nil, nil
}

func (s *checkinServer) sendReply(ctx context.Context, req *mcp.CallToolRequest, input sendReplyInput) (*mcp.CallToolResult, any, error) {
	sess, ok := s.session(input.SessionID)
	if !ok {
		return textResult(`{"error": "unknown session_id"}`), nil, nil
	}

	var mood *int
	if input.Mood >= 1 && input.Mood <= 10 {
		mood = &input.Mood
	}

	turn, err := sess.Advance(input.Text, mood)
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}
	if turn.SessionEnded {
		s.mu.Lock()
		delete(s.sessions, input.SessionID)
		s.mu.Unlock()
	}
	return textResult(jsonString(turnToMap(turn))), nil, nil
}

func (s *checkinServer) newTopic(ctx context.Context, req *mcp.CallToolRequest, input sessionInput) (*mcp.CallToolResult, any, error) {
	sess, ok := s.session(input.SessionID)
	if !ok {
		return textResult(`{"error": "unknown session_id"}`), nil, nil
	}
	turn, err := sess.NewTopic()
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}
	return textResult(jsonString(turnToMap(turn))), nil, nil
}

func (s *checkinServer) endCheckin(ctx context.Context, req *mcp.CallToolRequest, input sessionInput) (*mcp.CallToolResult, any, error) {
	sess, ok := s.session(input.SessionID)
	if !ok {
		return textResult(`{"error": "unknown session_id"}`), nil, nil
	}

	in := sess.Insights()
	sess.End()
	s.mu.Lock()
	delete(s.sessions, input.SessionID)
	s.mu.Unlock()

	return textResult(jsonString(map[string]any{
		"status":            "ended",
		"exchanges":         in.TotalExchanges,
		"average_mood":      in.AverageMood,
		"dominant_emotions": in.DominantEmotions,
		"topics":            in.DiscussedTopics,
		"pattern":           in.Pattern,
		"engagement":        in.Engagement,
		"duration_seconds":  in.Duration.Seconds(),
	})), nil, nil
}

func (s *checkinServer) getInsights(ctx context.Context, req *mcp.CallToolRequest, input insightsInput) (*mcp.CallToolResult, any, error) {
	days := input.Days
	if days <= 0 {
		days = 30
	}

	replies, err := s.engine.Store().RecentReplies(input.UserID, days*20)
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}

	streak, err := s.engine.Store().Streak(input.UserID, attune.DayID(time.Now()))
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}

	in := attune.ComputeInsights(replies, days)
	stats := attune.ComputeStats(replies, streak)

	return textResult(jsonString(map[string]any{
		"top_emotions":      in.TopEmotions,
		"average_mood":      in.AverageMood,
		"mood_label":        in.MoodTrendLabel(),
		"mood_distribution": in.MoodDistribution,
		"engagement":        in.MostCommonEngagement,
		"engagement_label":  in.EngagementTrendLabel(),
		"total_replies":     in.TotalReplies,
		"conversations":     stats.TotalConversations,
		"avg_reply_length":  stats.AverageResponseLength,
		"streak_days":       stats.StreakDays,
	})), nil, nil
}

func (s *checkinServer) moodTrends(ctx context.Context, req *mcp.CallToolRequest, input insightsInput) (*mcp.CallToolResult, any, error) {
	days := input.Days
	if days <= 0 {
		days = 30
	}
	trends, err := s.engine.Store().MoodTrends(input.UserID, days)
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}

	out := make([]map[string]any, len(trends))
	for i, t := range trends {
		out[i] = map[string]any{
			"day":      t.DayID,
			"avg_mood": t.AvgMood,
			"replies":  t.Replies,
		}
	}
	return textResult(jsonString(out)), nil, nil
}

type recommendInput struct {
	UserID string `json:"user_id"         jsonschema:"User ID"`
	Count  int    `json:"count,omitempty" jsonschema:"How many prompts to recommend (default 5)"`
}

func (s *checkinServer) recommendPrompts(ctx context.Context, req *mcp.CallToolRequest, input recommendInput) (*mcp.CallToolResult, any, error) {
	count := input.Count
	if count <= 0 {
		count = 5
	}

	profile, err := s.engine.Store().LoadProfile(input.UserID)
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}

	selector := attune.NewSelector(profile)
	candidates := s.engine.Catalog().PromptsFor(attune.TimeOfDayAt(time.Now()))
	recs := selector.Recommendations(candidates, attune.SelectionContext{
		Flow: attune.FlowInitial,
		Mood: 5,
	}, count)

	out := make([]map[string]any, len(recs))
	for i, r := range recs {
		out[i] = map[string]any{
			"id":            r.Prompt.ID,
			"question":      r.Prompt.Question,
			"category":      r.Prompt.Category,
			"score":         r.Score,
			"compatibility": r.Compatibility,
			"reason":        r.Reason,
		}
	}
	return textResult(jsonString(out)), nil, nil
}

func (s *checkinServer) inspectProfile(ctx context.Context, req *mcp.CallToolRequest, input profileInput) (*mcp.CallToolResult, any, error) {
	profile, err := s.engine.Store().LoadProfile(input.UserID)
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}

	history, err := s.engine.Store().StatsSummary(input.UserID)
	if err != nil {
		return textResult(fmt.Sprintf("error: %v", err)), nil, nil
	}

	snapshot := profile.LearningSnapshot()

	return textResult(jsonString(map[string]any{
		"user_id":              profile.UserID,
		"history":              history,
		"learning_progress":    snapshot.Progress(),
		"well_learned":         snapshot.WellLearned(),
		"preferred_style":      profile.PreferredStyle,
		"preferred_tone":       profile.PreferredTone,
		"preferred_categories": profile.PreferredCategories,
		"response_length":      profile.ResponseLength,
		"conversation_depth":   profile.ConversationDepth,
		"time_preferences":     profile.TimePreferences,
		"most_active_time":     profile.MostActiveTime,
		"avg_mood":             profile.AvgMood,
		"total_replies":        profile.TotalReplies,
		"top_emotional_words":  profile.TopEmotionalWords(10),
		"personality":          profile.PersonalityInsights(),
	})), nil, nil
}

// --- Helpers ---

func turnToMap(t attune.AgentTurn) map[string]any {
	return map[string]any{
		"text":          t.Text,
		"kind":          t.Kind,
		"crisis":        t.Crisis,
		"session_ended": t.SessionEnded,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonString(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal: %v"}`, err)
	}
	return string(data)
}
