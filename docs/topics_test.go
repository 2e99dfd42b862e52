package docs

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestAllTopicsLoad(t *testing.T) {
	topics, err := AllTopics()
	if err != nil {
		t.Fatalf("AllTopics() = %v", err)
	}
	if len(topics) == 0 {
		t.Fatal("no documentation topics embedded")
	}
	for _, topic := range topics {
		t.Run(topic, func(t *testing.T) {
			content, err := Topic(topic)
			if err != nil {
				t.Fatalf("Topic(%q) = %v", topic, err)
			}
			if strings.TrimSpace(content) == "" {
				t.Errorf("Topic(%q) is empty", topic)
			}
		})
	}
}

// Every topic must start with a level-1 heading so the concatenated '*'
// output stays navigable in the terminal renderer.
func TestTopicsStartWithHeading(t *testing.T) {
	topics, err := AllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range topics {
		t.Run(topic, func(t *testing.T) {
			content, err := Topic(topic)
			if err != nil {
				t.Fatal(err)
			}
			source := []byte(content)
			root := goldmark.DefaultParser().Parse(text.NewReader(source))
			first := root.FirstChild()
			h, ok := first.(*ast.Heading)
			if !ok {
				t.Fatalf("topic %q does not start with a heading, got %T", topic, first)
			}
			if h.Level != 1 {
				t.Errorf("topic %q starts with a level %d heading, want 1", topic, h.Level)
			}
		})
	}
}

func TestTopicsStar(t *testing.T) {
	all, err := Topics("*")
	if err != nil {
		t.Fatalf("Topics(*) = %v", err)
	}
	topics, _ := AllTopics()
	for _, topic := range topics {
		content, _ := Topic(topic)
		if !strings.Contains(all, content) {
			t.Errorf("Topics(*) does not contain topic %q", topic)
		}
	}
}

func TestUnknownTopic(t *testing.T) {
	if _, err := Topic("no-such-topic"); err == nil {
		t.Fatal("expected an error for an unknown topic")
	}
}
