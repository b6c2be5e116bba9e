package server

import "fmt"

type Code int

const (
	CodeSuccess Code = iota
)

const (
	CodeErrorStart = iota + 100
	CodeProtocol
	CodeMissArgs
	CodeInvalidArgs
	CodeInternalError
	CodeNotFound
)

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "success"
	case CodeProtocol:
		return "protocol error"
	case CodeMissArgs:
		return "missing arguments"
	case CodeInvalidArgs:
		return "invalid arguments"
	case CodeInternalError:
		return "internal error"
	case CodeNotFound:
		return "not found"
	}

	return fmt.Sprintf("unknown error %d", int(c))
}

func CodeToMessage(code Code, msg string) string {
	codeMsg := code.String()

	if msg != "" {
		codeMsg += ":" + msg
	}

	return codeMsg
}
