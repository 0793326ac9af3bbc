package faq

import (
	"fmt"
	"strings"
)

// Record is one immutable question/answer pair. Duplicate IDs are permitted;
// the seed data carries one duplicated entry and the corpus is rendered as-is.
type Record struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Corpus is a fixed ordered sequence of records, loaded once at startup and
// never mutated afterwards.
type Corpus []Record

// Render produces the prompt block embedded into every chat system prompt:
// one "{id}. {question} – {answer}" line per record, in corpus order.
func (c Corpus) Render() string {
	lines := make([]string, 0, len(c))
	for _, r := range c {
		lines = append(lines, fmt.Sprintf("%d. %s – %s", r.ID, r.Question, r.Answer))
	}
	return strings.Join(lines, "\n")
}

// Seed returns the built-in platform FAQ corpus.
func Seed() Corpus {
	return Corpus{
		{ID: 1, Question: "How do I update my password?", Answer: "To update your password, go to the profile section on top right corner and click 'Update password'."},
		{ID: 2, Question: "How can I contact support?", Answer: "You can contact support by emailing support@yourplatform.com."},
		{ID: 3, Question: "How do I buy a product?", Answer: "To buy a product, go to the shop page and search for the product you want to buy. Then click on 'Buy Now'. Follow the steps to complete payment."},
		{ID: 4, Question: "How do I sell a product?", Answer: "Go to your profile, click 'Sell', and fill out the product details. After submission, it will be listed after approval."},
		{ID: 5, Question: "How do I book a service?", Answer: "Find a provider's profile or listing, then click 'Book Service' and choose your preferred time slot."},
		{ID: 6, Question: "What are subscription plans?", Answer: "Subscription plans give you access to premium content, early drops, or exclusive features based on the plan."},
		{ID: 7, Question: "What is a drop?", Answer: "A drop is a user post, like a photo or video, that appears in followers' feeds."},
		{ID: 8, Question: "What is a droplet?", Answer: "A droplet is a short story-style post that disappears after 24 hours."},
		{ID: 9, Question: "What is a reel?", Answer: "A reel is a short-form video that can be shared to gain more engagement."},
		{ID: 10, Question: "How do I tip another user?", Answer: "Tap the tip icon on a user's post or profile. Select an amount and confirm payment to send your tip."},
		{ID: 11, Question: "How do I comment on a drop or reel?", Answer: "Open the post or reel, scroll down to the comments section, type your message, and tap 'Post'."},
		{ID: 12, Question: "What’s the max video length for a reel?", Answer: "Currently, the max limit is 20 Mb."},
		{ID: 13, Question: "When does a story expire on the platform?", Answer: "It expires after 24 hours of posting it."},
		{ID: 14, Question: "What is a droplet?", Answer: "A droplet is a short story-style post that disappears after 24 hours."},
	}
}
