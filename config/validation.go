/*
 * Copyright © 2026 Musing Studio LLC.
 *
 * This file is part of WriteFreely.
 *
 * WriteFreely is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License, included
 * in the LICENSE file in this source code package.
 */

package config

import (
	"fmt"
	"strconv"
)

const (
	minPort = 1
	maxPort = 1<<16 - 1
)

func validatePort(i string) error {
	p, err := strconv.Atoi(i)
	if err != nil {
		return err
	}
	if p < minPort || p > maxPort {
		return fmt.Errorf("port must be a number %d - %d", minPort, maxPort)
	}
	return nil
}

func validateNonEmpty(i string) error {
	if i == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}

func validateMillis(i string) error {
	ms, err := strconv.Atoi(i)
	if err != nil {
		return err
	}
	if ms < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
