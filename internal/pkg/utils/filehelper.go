// Пакет подключения хранения в файле
package utils

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Fields запись ключ-значение в файле
type Fields struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FileHelper структура для работы с файлом
type FileHelper struct {
	mu   sync.Mutex
	name string
	file *os.File
}

// NewFileHelper возвращаем хелпер или ошибку, чтобы выключить сохранение в файл
func NewFileHelper(filename string) (*FileHelper, error) {
	if filename == "" {
		return nil, errors.New("filename is empty, no store tempdb")
	}

	file, err := openAppend(filename)
	if err != nil {
		return nil, err
	}
	return &FileHelper{name: filename, file: file}, nil
}

func openAppend(filename string) (*os.File, error) {
	return os.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
}

// WriteFile дописывает запись в файл для восстановления после рестарта.
func (fh *FileHelper) WriteFile(key, value string) error {
	jt, err := json.Marshal(Fields{Key: key, Value: value})
	if err != nil {
		return err
	}
	jt = append(jt, '\n')
	fh.mu.Lock()
	defer fh.mu.Unlock()
	_, err = fh.file.Write(jt)
	return err
}

// ReadFile чтение файла, последнее значение ключа побеждает.
// При ошибке чтения возвращает все, что успели прочитать до нее
func (fh *FileHelper) ReadFile() (map[string]string, error) {
	data := make(map[string]string)
	fh.mu.Lock()
	defer fh.mu.Unlock()
	if _, err := fh.file.Seek(0, io.SeekStart); err != nil {
		return data, err
	}
	reader := bufio.NewReader(fh.file)
	for {
		line, err := reader.ReadBytes('\n')
		if line = bytes.TrimSpace(line); len(line) > 0 {
			var fields Fields
			//битая строка, остальное читаем
			if jerr := json.Unmarshal(line, &fields); jerr == nil {
				data[fields.Key] = fields.Value
			}
		}
		if errors.Is(err, io.EOF) {
			return data, nil
		}
		if err != nil {
			return data, err
		}
	}
}

// Compact переписывает файл так, чтобы в нем осталось по одной записи на ключ.
// Новый файл пишется рядом и подменяет старый через rename
func (fh *FileHelper) Compact(data map[string]string) error {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fh.mu.Lock()
	defer fh.mu.Unlock()
	tmp, err := os.CreateTemp(filepath.Dir(fh.name), filepath.Base(fh.name)+".*.tmp")
	if err != nil {
		return err
	}
	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, k := range keys {
		if err = enc.Encode(Fields{Key: k, Value: data[k]}); err != nil {
			break
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), fh.name)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}

	file, err := openAppend(fh.name)
	if err != nil {
		return err
	}
	_ = fh.file.Close()
	fh.file = file
	return nil
}

// Close закрывает файл
func (fh *FileHelper) Close() error {
	fh.mu.Lock()
	defer fh.mu.Unlock()
	return fh.file.Close()
}
