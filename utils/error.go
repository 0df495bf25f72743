package utils

import "errors"

var ErrorRoleNotFound = errors.New("role not found in guild")
