package roster

import (
	"encoding/csv"
	"io"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulse/pkg/domain/model"
	"github.com/secmon-lab/pulse/pkg/domain/types"
)

// Load reads a team roster CSV file and returns the users it defines.
// Expected header: user_id,username,real_name,email,title. Rows without
// a user_id are skipped. The file supplements the chat workspace roster
// with members that should be tracked even before their first fetch.
func Load(path string) ([]*model.User, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from CLI configuration
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open roster file", goerr.V("path", path))
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads roster CSV records from r
func Parse(r io.Reader) ([]*model.User, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read roster header")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["user_id"]; !ok {
		return nil, goerr.New("roster file missing user_id column", goerr.V("header", header))
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	now := time.Now()
	var users []*model.User
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read roster record")
		}

		id := field(record, "user_id")
		if id == "" {
			continue
		}

		user := &model.User{
			ID:        types.UserID(id),
			Name:      field(record, "username"),
			RealName:  field(record, "real_name"),
			Email:     field(record, "email"),
			Title:     field(record, "title"),
			UpdatedAt: now,
		}
		if user.Name == "" {
			user.Name = id
		}
		if user.RealName == "" {
			user.RealName = user.Name
		}
		users = append(users, user)
	}

	return users, nil
}
