package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleUsers() []User {
	return []User{
		{ID: "1", Name: "Amani Kabila", Username: "amani", Email: "amani@test.cd", Role: "admin", Status: "active"},
		{ID: "2", Name: "Bea Tshala", Username: "bea", Email: "bea@test.cd", Role: "Proctor", Status: "suspended"},
		{ID: "3", Name: "Chris Mbuyi", Username: "chris", Email: "chris@uni.cd", Role: "student", Status: "active"},
		{ID: "4", Name: "Dede", Username: "dede", Email: "dede@uni.cd", Role: "", Status: "weird"},
	}
}

func TestFilter_emptyCriteriaIsIdentity(t *testing.T) {
	users := sampleUsers()
	assert.Equal(t, users, Filter(users, QueryFilter{}))
	assert.Empty(t, Filter(nil, QueryFilter{}))
}

func TestFilter(t *testing.T) {
	users := sampleUsers()
	ids := func(us []User) []string {
		out := make([]string, 0, len(us))
		for _, u := range us {
			out = append(out, u.ID.String())
		}
		return out
	}

	tests := []struct {
		name   string
		filter QueryFilter
		want   []string
	}{
		{name: "search username", filter: QueryFilter{Search: "AMA"}, want: []string{"1"}},
		{name: "search email domain", filter: QueryFilter{Search: "uni.cd"}, want: []string{"3", "4"}},
		{name: "search name", filter: QueryFilter{Search: "tshala"}, want: []string{"2"}},
		{name: "search unknown", filter: QueryFilter{Search: "zzz"}, want: []string{}},
		{name: "role mixed case", filter: QueryFilter{Role: "ADMIN"}, want: []string{"1"}},
		{name: "role matches mixed case record", filter: QueryFilter{Role: "proctor"}, want: []string{"2"}},
		{name: "blank record role falls back to student", filter: QueryFilter{Role: "student"}, want: []string{"3", "4"}},
		{name: "role outside the set", filter: QueryFilter{Role: "janitor"}, want: []string{}},
		{name: "unknown record status falls back to active", filter: QueryFilter{Status: "active"}, want: []string{"1", "3", "4"}},
		{name: "status not present", filter: QueryFilter{Status: "pending"}, want: []string{}},
		{name: "all criteria", filter: QueryFilter{Search: "c", Role: "student", Status: "Active"}, want: []string{"3", "4"}},
		{name: "all criteria no match", filter: QueryFilter{Search: "amani", Role: "student"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(users, tt.filter)))
		})
	}
}

func TestQueryFilter_Values(t *testing.T) {
	tests := []struct {
		name   string
		filter QueryFilter
		want   string
	}{
		{name: "empty", filter: QueryFilter{}, want: ""},
		{name: "search only", filter: QueryFilter{Search: "abc"}, want: "q=abc"},
		{name: "blank fields omitted", filter: QueryFilter{Search: "abc", Role: " ", Status: ""}, want: "q=abc"},
		{name: "all", filter: QueryFilter{Search: "a b", Role: "admin", Status: "active"}, want: "q=a+b&role=admin&status=active"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Values().Encode())
		})
	}
}
