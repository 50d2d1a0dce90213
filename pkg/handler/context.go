package handler

// DI for all handlers and models alike.

import (
	"github.com/yumyai/omicsatlas/pkg/db"
)

type DBContext struct {
	DB *db.OmicsDB
}
