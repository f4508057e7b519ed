package sqlitestore

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/JonMunkholm/helprobot/internal/store/sqlbuild"
	"modernc.org/sqlite"
)

// Search filters call casefold on both sides of LIKE so that accented
// capitals such as É match their lowercase forms.
func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(sqlbuild.CaseFoldFunc, 1, casefold); err != nil {
		panic(fmt.Sprintf("register %s: %v", sqlbuild.CaseFoldFunc, err))
	}
}

func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
