package common

import (
	"encoding/json"
	"strings"

	"github.com/orsinium-labs/enum"
)

// Behavior decides what happens when a clip asks for more frames than its source holds.
type Behavior enum.Member[string]

var (
	EnforceLimit = Behavior{Value: "enforce_limit"}
	LoopFrames   = Behavior{Value: "loop_frames"}
	Pad          = Behavior{Value: "pad"}
	Behaviors    = enum.New(EnforceLimit, LoopFrames, Pad)
)

func ParseBehavior(value string) (Behavior, error) {
	b := Behaviors.Parse(strings.ToLower(value))
	if b == nil {
		return Behavior{}, Configurationf("unknown behavior %q", value)
	}
	return *b, nil
}

//goland:noinspection GoMixedReceiverTypes
func (b Behavior) String() string {
	return b.Value
}

//goland:noinspection GoMixedReceiverTypes
func (b Behavior) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Value)
}

//goland:noinspection GoMixedReceiverTypes
func (b *Behavior) UnmarshalJSON(value []byte) error {
	var stringValue string
	err := json.Unmarshal(value, &stringValue)
	if err != nil {
		return err
	}
	parsed, err := ParseBehavior(stringValue)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
