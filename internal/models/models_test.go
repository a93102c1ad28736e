package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		page, limit, def int
		want             Page
	}{
		{0, 0, 10, Page{Number: 1, Limit: 10}},
		{3, 20, 10, Page{Number: 3, Limit: 20}},
		{-1, 0, 20, Page{Number: 1, Limit: 20}},
		{2, 50, 10, Page{Number: 2, Limit: 50}},
		{1, 100, 10, Page{Number: 1, Limit: MaxPageLimit}},
		{math.MaxInt, 50, 10, Page{Number: MaxPageNumber, Limit: 50}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NewPage(tt.page, tt.limit, tt.def))
	}
	assert.EqualValues(t, 40, Page{Number: 3, Limit: 20}.Skip())

	huge := NewPage(math.MaxInt, MaxPageLimit, 10)
	assert.EqualValues(t, int64(MaxPageNumber-1)*MaxPageLimit, huge.Skip())
	assert.Positive(t, huge.Skip())
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(Page{Number: 2, Limit: 10}, 25)
	assert.Equal(t, 3, p.Pages)
	assert.True(t, p.HasNext())

	last := NewPagination(Page{Number: 3, Limit: 10}, 25)
	assert.False(t, last.HasNext())

	empty := NewPagination(Page{Number: 1, Limit: 10}, 0)
	assert.Equal(t, 0, empty.Pages)
	assert.False(t, empty.HasNext())
}

func TestAccountRefKeys(t *testing.T) {
	assert.Equal(t, "User:42", UserRef(42).Key())
	assert.Equal(t, "Company:42", CompanyRef(42).Key())
	assert.NotEqual(t, UserRef(1), CompanyRef(1))
	assert.False(t, AccountType("Admin").Valid())
}

func TestConnectionPairKeyIsUnordered(t *testing.T) {
	assert.Equal(t, ConnectionPairKey(3, 12), ConnectionPairKey(12, 3))
	assert.NotEqual(t, ConnectionPairKey(1, 23), ConnectionPairKey(12, 3))

	c := Connection{RequesterID: 3, ReceiverID: 12}
	assert.Equal(t, uint(12), c.Other(3))
	assert.Equal(t, uint(3), c.Other(12))
}

func TestConversationKey(t *testing.T) {
	a, b := UserRef(1), CompanyRef(1)
	assert.Equal(t, ConversationKey(a, b), ConversationKey(b, a))
	assert.Equal(t, "Company:1|User:1", ConversationKey(a, b))
	assert.NotEqual(t, ConversationKey(UserRef(1), UserRef(2)), ConversationKey(UserRef(1), CompanyRef(2)))
}

func TestPlacementFlattensReplies(t *testing.T) {
	_, isReply := TopLevel().Root()
	assert.False(t, isReply)

	top := &Comment{ID: primitive.NewObjectID()}
	root, isReply := PlacementFor(top).Root()
	assert.True(t, isReply)
	assert.Equal(t, top.ID, root)

	reply := &Comment{ID: primitive.NewObjectID(), ParentID: &top.ID}
	root, _ = PlacementFor(reply).Root()
	assert.Equal(t, top.ID, root)
}

func TestReactionTypes(t *testing.T) {
	for _, typ := range []ReactionType{ReactionLike, ReactionLove, ReactionDislike, ReactionEncourage, ReactionHaha} {
		assert.True(t, typ.Valid(), typ)
	}
	assert.False(t, ReactionType("angry").Valid())
	assert.False(t, TargetType("Story").Valid())
}

func TestJobHasApplied(t *testing.T) {
	j := JobOffer{Applicants: []Applicant{{UserID: 4}}}
	assert.True(t, j.HasApplied(4))
	assert.False(t, j.HasApplied(5))
}
