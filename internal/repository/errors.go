package repository

import "errors"

// Ошибки слоя репозиториев
var (
	// ErrNotFound запрошенный объект не найден
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable источник данных недоступен; снапшот
	// деградирует до пустого, процесс не падает
	ErrUpstreamUnavailable = errors.New("upstream data source unavailable")

	// ErrCacheMiss результата нет в кэше отчетов
	ErrCacheMiss = errors.New("cache miss")
)
