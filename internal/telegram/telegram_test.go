package telegram

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestFromUpdate(t *testing.T) {
	u := tgbotapi.Update{
		UpdateID: 101,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: 42},
			Chat: &tgbotapi.Chat{ID: -1007},
			Text: "-500 groceries milk",
			Date: 1741600000,
		},
	}
	got, ok := FromUpdate(u)
	if !ok {
		t.Fatal("text message rejected")
	}
	if got.ID != 101 || got.SenderID != 42 || got.ChatID != -1007 {
		t.Errorf("converted update = %+v", got)
	}
	if got.Text != "-500 groceries milk" {
		t.Errorf("text = %q", got.Text)
	}
	if got.ReceivedAt.Unix() != 1741600000 {
		t.Errorf("received at = %v", got.ReceivedAt)
	}
}

func TestFromUpdateRejectsNonText(t *testing.T) {
	updates := []tgbotapi.Update{
		{UpdateID: 1}, // no message at all
		{UpdateID: 2, Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}, Text: "x"}},               // no sender
		{UpdateID: 3, Message: &tgbotapi.Message{From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 1}}}, // no text
	}
	for _, u := range updates {
		if _, ok := FromUpdate(u); ok {
			t.Errorf("update %d unexpectedly accepted", u.UpdateID)
		}
	}
}
