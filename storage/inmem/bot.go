package inmemdb

import (
	"context"
	"strings"

	"github.com/trezcool/proctor/core/bot"
)

// botReplies are matched in order against the lowercased message.
var botReplies = []struct {
	keyword string
	reply   string
}{
	{"alert", "Open alerts are listed under Security. Resolve them once the recording has been reviewed."},
	{"exam", "Exams can be created one by one or imported from a .csv timetable."},
	{"import", "Imports expect a header line. Rows that fail are reported with their line number."},
	{"password", "Passwords need 8 characters with an uppercase letter, a lowercase letter, a digit and a symbol."},
	{"hello", "Hello! Ask me about exams, alerts, imports or accounts."},
}

const botFallback = "I am the demo assistant. Ask me about exams, alerts, imports or accounts."

type botRepository struct {
	db *DB
}

var _ bot.Repository = (*botRepository)(nil) // interface compliance check

func NewBotRepository(db *DB) bot.Repository {
	return &botRepository{db: db}
}

func (repo *botRepository) Chat(_ context.Context, msg bot.Message) (bot.Reply, error) {
	text := strings.ToLower(msg.Message)
	reply := botFallback
	for _, r := range botReplies {
		if strings.Contains(text, r.keyword) {
			reply = r.reply
			break
		}
	}
	return bot.Reply{Reply: reply, At: repo.db.now().UTC()}, nil
}

func (repo *botRepository) Status(context.Context) (bot.Status, error) {
	return bot.Status{Online: true, Model: "mock"}, nil
}
