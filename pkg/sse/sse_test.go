package sse

import (
	"io"
	"testing"
)

func TestEventEncode(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  string
	}{
		{
			"data only",
			Event{Data: "hello"},
			"data: hello\n\n",
		},
		{
			"named event",
			Event{Name: "tick", Data: "1"},
			"event: tick\ndata: 1\n\n",
		},
		{
			"with id",
			Event{Name: "tick", Data: "1", ID: "42"},
			"event: tick\nid: 42\ndata: 1\n\n",
		},
		{
			"multi-line data",
			Event{Data: "line1\nline2"},
			"data: line1\ndata: line2\n\n",
		},
		{
			"empty data still emits a data field",
			Event{},
			"data: \n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.event.Encode()); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDataHelper(t *testing.T) {
	e := Data("payload")
	if e.Name != "" || e.ID != "" || e.Data != "payload" {
		t.Errorf("Data(\"payload\") = %+v", e)
	}
}

func TestEventsSource(t *testing.T) {
	src := Events(Event{Data: "a"}, Event{Data: "b"})

	first, err := src.Next()
	if err != nil || first.Data != "a" {
		t.Fatalf("Next() = %+v, %v", first, err)
	}
	second, err := src.Next()
	if err != nil || second.Data != "b" {
		t.Fatalf("Next() = %+v, %v", second, err)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("Next() after exhaustion = %v, want io.EOF", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}
}

func TestChanSource(t *testing.T) {
	ch := make(chan Event, 2)
	ch <- Event{Data: "a"}
	close(ch)

	src := Chan(ch)
	e, err := src.Next()
	if err != nil || e.Data != "a" {
		t.Fatalf("Next() = %+v, %v", e, err)
	}
	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("Next() after channel close = %v, want io.EOF", err)
	}
}

func TestChanSourceCancel(t *testing.T) {
	ch := make(chan Event) // unbuffered, nothing queued
	src := Chan(ch)

	if err := src.Close(); err != nil {
		t.Fatalf("Close() = %v", err)
	}

	select {
	case <-src.Done():
	default:
		t.Fatal("Done() not closed after Close()")
	}

	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("Next() after Close = %v, want io.EOF", err)
	}
}
