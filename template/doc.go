// Package template loads shader templates and expands them for a backend.
//
// A Repository reads templates from an afero filesystem rooted at a
// directory. It implements shadergen.TemplateSource: every generation
// request gets its own scope, so the directory an include resolves against
// is tracked per request and never shared between concurrent compilations.
//
// Preprocess expands a template the way a C-style shader compiler would:
// #include, #define (object-like and function-like), #undef, the #if
// family with defined(), #pragma once and #error. Backends for languages
// without a preprocessor, such as WGSL, run it before parsing.
//
// Watch invalidates a shadergen.ProgramCache when templates change on disk.
package template
