package user

import "github.com/trezcool/proctor/core"

// Filter returns the users matching every non-empty criterion of qf, in their original order.
// Search is a case-insensitive substring of name, username or email; role and status compare
// case-insensitively against the normalized record values.
func Filter(users []User, qf QueryFilter) []User {
	if qf.IsEmpty() {
		return users
	}
	return core.FilterSlice(users, func(u User) bool { return Match(u, qf) })
}

func Match(u User, qf QueryFilter) bool {
	return core.ContainsFold(qf.Search, u.Name, u.Username, u.Email) &&
		Roles.Match(u.Role, qf.Role) &&
		Statuses.Match(u.Status, qf.Status)
}
