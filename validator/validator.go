// Package validator performs a shallow structural check of an assembled
// payload against a reference layout tree. It only reports discrepancies; it
// never mutates the payload and never fails. It is deliberately not a schema
// engine: no value ranges, no enumerations, no cross-field consistency.
package validator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// sampleLimit caps how many elements of a list are checked, so a large day
// cannot flood the log with repeated messages.
const sampleLimit = 2000

// Node is one node of the reference layout tree.
type Node interface{ node() }

// Object expects a JSON object and requires every listed key to be present.
type Object map[string]Node

// List expects a JSON array. When Elem is non-nil each element is checked
// against it, up to sampleLimit.
type List struct{ Elem Node }

// Prim expects a primitive of the named kind: "str", "int", "float", "list"
// or "dict". Unknown names are skipped, keeping the check permissive.
type Prim string

func (Object) node() {}
func (List) node()   {}
func (Prim) node()   {}

// Fallback is the built-in reference tree covering the fields the pipeline
// emits, used when no example layout file is configured.
func Fallback() Object {
	address := Object{
		"descr": Prim("str"), "cep": Prim("str"), "cidade": Prim("str"),
		"uf": Prim("str"), "tel": Prim("str"),
	}
	return Object{
		"data": Prim("str"),
		"estabelecimentos": List{Elem: Object{
			"cod": Prim("str"), "doc": Prim("str"), "nome": Prim("str"),
			"nomeOfc": Prim("str"), "tipo": Prim("str"),
			"ender":    address,
			"codIqvia": Prim("str"), "tipoCaptacaoPrescricao": Prim("int"),
		}},
		"clientes": List{Elem: Object{
			"tipo": Prim("int"), "cod": Prim("str"), "profSaude": Prim("int"),
			"doc": Prim("str"), "nome": Prim("str"), "nomeOfc": Prim("str"),
			"ender": address,
		}},
		"produtos": List{Elem: Object{
			"cod": Prim("str"), "eanSellIn": Prim("str"), "eanSellOut": Prim("str"),
			"ncm": Prim("str"), "apresent": Prim("str"), "fabr": Prim("str"),
			"precoFabrica":           Prim("float"),
			"dispViaFarmaciaPopular": Prim("str"), "dispViaPbm": Prim("str"),
			"marcaPropria": Prim("str"),
		}},
		"vendas": List{Elem: Object{
			"codEstab": Prim("str"), "codCliente": Prim("str"),
			"comPrescricao": Prim("int"), "paraUsoProfSaude": Prim("int"),
			"codProfSaude": Prim("str"), "codProd": Prim("str"),
			"dt": Prim("str"), "qt": Prim("int"), "ecommerce": Prim("int"),
			"meio": Prim("int"), "docTipo": Prim("int"),
			"docFiscalSerie": Prim("str"), "docFiscalNum": Prim("int"),
			"danfe": Prim("str"), "vendaJudic": Prim("int"), "tipoPagto": Prim("int"),
			"preco": Object{
				"valor": Object{"liquido": Prim("float"), "bruto": Prim("float")},
				"icms": Object{
					"isento": Prim("int"), "aliq": Prim("float"),
					"valor": Prim("float"), "cst": Prim("str"),
					"subsTrib": Object{
						"valor": Prim("int"), "embutidoPreco": Prim("int"),
						"cest": Prim("str"),
					},
				},
			},
		}},
		"estoque": List{Elem: Object{
			"codEstab": Prim("str"), "codProd": Prim("str"),
			"dt": Prim("str"), "qt": Prim("int"),
		}},
	}
}

// LoadSpec derives a shallow first-level spec from an example payload file:
// key presence and container kind only, no deep type inference. An empty
// path or an unreadable/invalid file falls back to the built-in tree.
func LoadSpec(path string) Object {
	if path == "" {
		return Fallback()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Fallback()
	}
	sample, err := Decode(data)
	if err != nil {
		return Fallback()
	}
	root, ok := sample.(map[string]any)
	if !ok {
		return Fallback()
	}

	spec := Object{}
	for key, value := range root {
		switch value.(type) {
		case []any:
			spec[key] = List{Elem: Object{}}
		case map[string]any:
			spec[key] = Object{}
		case string:
			spec[key] = Prim("str")
		default:
			// presence only
			spec[key] = Prim("")
		}
	}
	return spec
}

// Decode parses JSON keeping numbers as json.Number, so the validator can
// tell integers from decimals by their serialized form.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate walks the payload against the reference tree and returns one
// human-readable message per discrepancy, path-qualified from "$".
func Validate(payload any, spec Node) []string {
	var errs []string
	walk(payload, spec, "$", &errs)
	return errs
}

func walk(v any, spec Node, path string, errs *[]string) {
	switch s := spec.(type) {
	case Object:
		obj, ok := v.(map[string]any)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("%s: expected object, got %s", path, kindOf(v)))
			return
		}
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, present := obj[k]
			if !present {
				*errs = append(*errs, fmt.Sprintf("%s.%s: required field missing", path, k))
				continue
			}
			walk(child, s[k], path+"."+k, errs)
		}
	case List:
		list, ok := v.([]any)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("%s: expected list, got %s", path, kindOf(v)))
			return
		}
		if s.Elem == nil {
			return
		}
		for i, item := range list {
			if i >= sampleLimit {
				break
			}
			walk(item, s.Elem, fmt.Sprintf("%s[%d]", path, i), errs)
		}
	case Prim:
		if !typeOK(v, string(s)) {
			*errs = append(*errs, fmt.Sprintf("%s: expected %s, got %s", path, string(s), kindOf(v)))
		}
	default:
		// unrecognized node: skip
	}
}

func typeOK(v any, name string) bool {
	switch name {
	case "str":
		_, ok := v.(string)
		return ok
	case "int":
		switch n := v.(type) {
		case int, int64:
			return true
		case json.Number:
			return !strings.ContainsAny(n.String(), ".eE")
		}
		return false
	case "float":
		switch v.(type) {
		case int, int64, float64, json.Number:
			return true
		}
		return false
	case "list":
		_, ok := v.([]any)
		return ok
	case "dict":
		_, ok := v.(map[string]any)
		return ok
	}
	// unknown type name: presence was enough
	return true
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float64, int, int64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}
