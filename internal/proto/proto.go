package proto

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a conversation sent to a provider.
type Message struct {
	Role    Role
	Content string
}

func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

type Request struct {
	Messages    []Message
	Temperature *float64
	MaxTokens   *int64
}

type TemplateArgs map[string]string

func (m TemplateArgs) Get(key string) string {
	v, ok := m[key]
	if !ok {
		return ""
	}
	return v
}

// Flags are the persistent flags shared by every command.
type Flags struct {
	ConfigFilePath string
	LogFile        string
	Debug          bool
	Quiet          bool
}
