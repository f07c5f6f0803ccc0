package models

import (
	"encoding/json"
	"fmt"
)

// InputSource is the canonical form of user-supplied source material:
// either pasted/extracted text or a binary document the planner can
// consume directly. Exactly one variant exists at a time.
type InputSource interface {
	inputSource()
}

type TextInput struct {
	Content  string `json:"textContent"`
	FileName string `json:"fileName,omitempty"`
}

type FileInput struct {
	Data     string `json:"fileData"` // base64-encoded original bytes
	MimeType string `json:"mimeType"`
	FileName string `json:"fileName"`

	// PageCount is document metadata for the UI's analysis panel;
	// zero means the document could not be inspected.
	PageCount int `json:"pageCount,omitempty"`
}

func (TextInput) inputSource() {}
func (FileInput) inputSource() {}

// EmptyText is the reset state after clearing a selected file.
func EmptyText() InputSource {
	return TextInput{}
}

type inputSourceJSON struct {
	Type      string `json:"type"`
	Content   string `json:"textContent,omitempty"`
	Data      string `json:"fileData,omitempty"`
	MimeType  string `json:"mimeType,omitempty"`
	FileName  string `json:"fileName,omitempty"`
	PageCount int    `json:"pageCount,omitempty"`
}

func MarshalInputSource(src InputSource) ([]byte, error) {
	switch v := src.(type) {
	case TextInput:
		return json.Marshal(inputSourceJSON{Type: "text", Content: v.Content, FileName: v.FileName})
	case FileInput:
		return json.Marshal(inputSourceJSON{Type: "file", Data: v.Data, MimeType: v.MimeType, FileName: v.FileName, PageCount: v.PageCount})
	default:
		return nil, fmt.Errorf("unknown input source variant %T", src)
	}
}

func UnmarshalInputSource(data []byte) (InputSource, error) {
	var raw inputSourceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	switch raw.Type {
	case "text":
		return TextInput{Content: raw.Content, FileName: raw.FileName}, nil
	case "file":
		if raw.Data == "" || raw.MimeType == "" {
			return nil, fmt.Errorf("file input requires fileData and mimeType")
		}
		return FileInput{Data: raw.Data, MimeType: raw.MimeType, FileName: raw.FileName, PageCount: raw.PageCount}, nil
	default:
		return nil, fmt.Errorf("unknown input source type: %q", raw.Type)
	}
}
