// Package xmlutils inspects XML documents with XPath, chiefly to recognize
// ISO 20022 payment messages before they are converted.
package xmlutils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"fjacquet/format-converter/internal/logging"

	"gopkg.in/xmlpath.v2"
)

// ErrUnknownMessage is returned by Inspect when the document is not one of
// KnownMessages.
var ErrUnknownMessage = errors.New("document is not a supported ISO 20022 message")

var namespacePattern = regexp.MustCompile(`urn:iso:std:iso:20022:tech:xsd:([a-z]{4}\.\d{3}\.\d{3}\.\d{2})`)

// MessageInfo describes an ISO 20022 message.
type MessageInfo struct {
	Type                 string
	Description          string
	RootElement          string
	Version              string
	MessageID            string
	CreationDateTime     string
	NumberOfTransactions string
	SettlementMethod     string
}

// Inspect reads an XML document and identifies its ISO 20022 message type
// along with the group header fields. Detection is logged at debug level to
// logger, which may be nil.
func Inspect(r io.Reader, logger logging.Logger) (MessageInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return MessageInfo{}, fmt.Errorf("failed to read XML: %w", err)
	}
	root, err := xmlpath.Parse(bytes.NewReader(data))
	if err != nil {
		return MessageInfo{}, fmt.Errorf("failed to parse XML: %w", err)
	}

	for _, def := range KnownMessages {
		base := "/Document/" + def.RootElement
		if !xmlpath.MustCompile(base).Exists(root) {
			continue
		}
		info := MessageInfo{
			Type:        def.Type,
			Description: def.Description,
			RootElement: def.RootElement,
		}
		if m := namespacePattern.FindSubmatch(data); m != nil {
			info.Version = string(m[1])
		}
		info.MessageID = first(root, base+"/"+XPathMessageID)
		info.CreationDateTime = first(root, base+"/"+XPathCreationDateTime)
		info.NumberOfTransactions = first(root, base+"/"+XPathNumberOfTxs)
		info.SettlementMethod = first(root, base+"/"+XPathSettlementMethod)

		if logger != nil {
			logger.Debug("Detected ISO 20022 message",
				logging.F(logging.FieldMessageType, info.Type),
				logging.F("version", info.Version))
		}
		return info, nil
	}
	return MessageInfo{}, ErrUnknownMessage
}

func first(root *xmlpath.Node, xpath string) string {
	values, err := ExtractFromXML(root, xpath)
	if err != nil {
		return ""
	}
	return CleanText(valueAt(values, 0))
}

// ExtractFromXML returns the string value of every node matching xpath, in
// document order.
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, iter.Node().String())
	}

	return values, nil
}

func valueAt(slice []string, index int) string {
	if index < len(slice) {
		return slice[index]
	}
	return ""
}

// CleanText collapses runs of whitespace into single spaces and trims the
// result.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
