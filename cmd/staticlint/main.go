//	Пакет main поддерживает следующие анализаторы
//
// osexit - самописный анализатор прямого вызова os.Exit в main,
// errcheck - проверка на обработку ошибок,
// staticcheck - все анализаторы SA,
// analysis - стандартные анализаторы printf, shadow, structtag, httpresponse, errorsas.
package main

import (
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"

	"github.com/kisielk/errcheck/errcheck"
	"honnef.co/go/tools/staticcheck" //staticcheck.io

	"github.com/SversusN/reviewcheck/cmd/staticlint/osexit"
)

func main() {
	var chks []*analysis.Analyzer

	// Добавляем все анализаторы staticcheck.
	for _, v := range staticcheck.Analyzers {
		chks = append(chks, v.Analyzer)
	}

	// Дополнительные анализаторы
	chks = append(
		chks,
		osexit.OSExitAnalyzer, // Проверяем os.Exit в main.
		printf.Analyzer,       // Проверяем форматированную печать printf.
		shadow.Analyzer,       // Проверяем shadow-переопределения.
		structtag.Analyzer,    // Проверяем правильность тегов структур.
		httpresponse.Analyzer, // Проверяем использование ответа до проверки ошибки.
		errorsas.Analyzer,     // Проверяем второй аргумент errors.As.
		errcheck.Analyzer,     // Проверяем обработку ошибок.
	)

	//Запускаем multichecker
	multichecker.Main(chks...)
}
