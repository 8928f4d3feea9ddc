// Copyright 2026 The mbuild Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pathtools

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
)

// WriteFileIfChanged writes data to filename unless the file already holds
// exactly data, so that its timestamp only moves when the contents do. Parent
// directories are created as needed. It reports whether the file was written.
func WriteFileIfChanged(filename string, data []byte, perm os.FileMode) (bool, error) {
	if same, err := sameContents(filename, data); err != nil {
		return false, err
	} else if same {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0777); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(filename))
	}
	if err := os.WriteFile(filename, data, perm); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to write file"), "path", filename)
	}
	return true, nil
}

func sameContents(filename string, data []byte) (bool, error) {
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return false, nil
	} else if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to open file"), "path", filename)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", filename)
	}
	if info.Size() != int64(len(data)) {
		return false, nil
	}

	buf := make([]byte, 32*1024)
	for len(data) > 0 {
		n, err := io.ReadFull(f, buf[:min(len(buf), len(data))])
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return false, nil
		} else if err != nil {
			return false, zerr.With(zerr.Wrap(err, "failed to read file"), "path", filename)
		}
		if !bytes.Equal(buf[:n], data[:n]) {
			return false, nil
		}
		data = data[n:]
	}
	return true, nil
}
