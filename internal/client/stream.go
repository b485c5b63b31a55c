package client

import (
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/packages/ssestream"
)

type Stream struct {
	ssestream *ssestream.Stream[openai.ChatCompletionChunk]
	acc       openai.ChatCompletionAccumulator
}

func NewStream(stream *ssestream.Stream[openai.ChatCompletionChunk]) *Stream {
	return &Stream{
		ssestream: stream,
		acc:       openai.ChatCompletionAccumulator{},
	}
}

// Collect drains the stream into a single completion. onChunk may be nil.
func (s *Stream) Collect(onChunk func(chunk openai.ChatCompletionChunk)) (openai.ChatCompletion, error) {
	stream := s.ssestream
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		s.acc.AddChunk(chunk)

		if onChunk != nil && len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			onChunk(chunk)
		}
	}

	return s.acc.ChatCompletion, stream.Err()
}
