package chat

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestMemberStatusSubscribed(t *testing.T) {
	for _, s := range []MemberStatus{StatusMember, StatusAdministrator, StatusCreator, StatusOwner} {
		assert.True(t, s.Subscribed(), s)
	}
	for _, s := range []MemberStatus{StatusRestricted, StatusLeft, StatusKicked, "", "weird"} {
		assert.False(t, s.Subscribed(), s)
	}
}

func TestClassifyStructured(t *testing.T) {
	err := errors.Wrap(&DeliveryError{Reason: ReasonChatNotFound, Err: fmt.Errorf("x")}, "send")
	assert.Equal(t, ReasonChatNotFound, Classify(err))
	assert.True(t, Classify(err).Permanent())
}

func TestClassifyTextFallback(t *testing.T) {
	for _, tc := range []struct {
		msg  string
		want FailureReason
	}{
		{"Forbidden: bot was blocked by the user", ReasonBlocked},
		{"Forbidden: user is deactivated", ReasonDeactivated},
		{"Forbidden: bot can't initiate conversation with a user", ReasonForbidden},
		{"Bad Request: chat not found", ReasonChatNotFound},
		{"Too Many Requests: retry after 5", ReasonUnknown},
		{"connection reset by peer", ReasonUnknown},
	} {
		got := Classify(fmt.Errorf("%s", tc.msg))
		assert.Equal(t, tc.want, got, tc.msg)
	}
	assert.Equal(t, ReasonUnknown, Classify(nil))
	assert.False(t, ReasonUnknown.Permanent())
}

func TestMessageHasMedia(t *testing.T) {
	assert.False(t, Message{Text: "hi"}.HasMedia())
	assert.True(t, Message{Kind: "photo", FileID: "f"}.HasMedia())
}
