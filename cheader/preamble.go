// Package cheader holds the static C source fragments every generated
// translation unit starts with: the VM-register layout, the type-punning
// union that is the lingua franca of every stencil, and the runtime ABI's
// extern prototypes.
package cheader

import (
	"fmt"
	"strings"

	"github.com/wudi/aseajit/runtimeabi"
)

// gate is fragment 1: fixed-width integer aliases, the execution-state
// enum, and opaque forward declarations. It never changes per function,
// so it is a plain constant rather than something Render assembles.
const gate = `#ifdef ASEA_SUPPORT
typedef __INT8_TYPE__   asINT8;
typedef __INT16_TYPE__  asINT16;
typedef __INT32_TYPE__  asINT32;
typedef __INT64_TYPE__  asINT64;
typedef __UINT8_TYPE__  asBYTE;
typedef __UINT16_TYPE__ asWORD;
typedef __UINT32_TYPE__ asDWORD;
typedef __UINT64_TYPE__ asQWORD;
typedef asQWORD asPWORD;

enum asea_exec_state {
	asEXECUTION_FINISHED,
	asEXECUTION_SUSPENDED,
	asEXECUTION_ABORTED,
	asEXECUTION_EXCEPTION,
	asEXECUTION_PREPARED,
	asEXECUTION_UNINITIALIZED,
	asEXECUTION_ACTIVE,
	asEXECUTION_ERROR,
	asEXECUTION_DESERIALIZATION
};

struct asIScriptContext;
struct asIScriptEngine;
struct asIScriptFunction;
struct asIObjectType;
struct asIScriptObject;
typedef struct asIScriptContext asIScriptContext;
typedef struct asIScriptEngine asIScriptEngine;
typedef struct asIScriptFunction asIScriptFunction;
typedef struct asIObjectType asIObjectType;
typedef struct asIScriptObject asIScriptObject;
`

// union is fragment 2: the punning union every stack slot and frame slot
// is read and written through. Kept C-only rather than modeled in Go
// because stencils need to reinterpret the same bytes under different
// widths in place, which a Go type cannot express without unsafe casts
// on every access.
const union = `
typedef union asea_var {
	asINT8   as_i8;
	asINT16  as_i16;
	asINT32  as_i32;
	asINT64  as_i64;
	asBYTE   as_u8;
	asWORD   as_u16;
	asDWORD  as_u32;
	asQWORD  as_u64;
	float    as_f;
	double   as_d;
	void*    as_ptr;
	union asea_var* as_varptr;
} asea_var;

typedef union asea_float_bits {
	float    f;
	asDWORD  bits;
} asea_float_bits;

typedef union asea_double_bits {
	double   d;
	asQWORD  bits;
} asea_double_bits;
`

// structs is fragment 3: layout-compatible clones of the VM register
// block and the native call frame, plus a dynamic-array descriptor. The
// field order and widths must track engine.VMRegisters exactly.
const structs = `
typedef struct asea_vm_registers {
	asDWORD*         programPointer;
	asea_var*        stackPointer;
	asea_var*        stackFramePointer;
	asQWORD          valueRegister;
	void*            objectRegister;
	asIObjectType*   objectType;
	asBYTE           doProcessSuspend;
	asIScriptContext* ctx;
} asea_vm_registers;

typedef struct asea_generic {
	asIScriptEngine*  engine;
	asIScriptFunction* function;
	asea_var*         argsAddress;
	asea_var*         returnAddress;
	void*             objectAddress;
} asea_generic;

typedef struct asea_array {
	void*    data;
	asPWORD  length;
	asPWORD  capacity;
} asea_array;
`

// macros is fragment 4: the arithmetic macros every stencil is written
// against. l_sp and l_fp are deliberately void*, so every access goes through one of these casts rather than
// through plain pointer arithmetic on a typed pointer.
const macros = `
#define ASEA_PUSH_BYTES(n)   (l_sp = (void*)((char*)l_sp - (n)))
#define ASEA_POP_BYTES(n)    (l_sp = (void*)((char*)l_sp + (n)))
#define ASEA_TOP(T)          (*(T*)l_sp)
#define ASEA_AT(T, off)      (*(T*)((char*)l_sp + (off)))
#define ASEA_FRAME(T, n)     (*(T*)((char*)l_fp + (asPWORD)(n) * 4))
#define ASEA_VALUEREG(T)     (*(T*)&regs->valueRegister)
#define VALUE_OF_BOOLEAN_TRUE 1
`

// Render produces the complete preamble: the four fragments above
// followed by one `extern` prototype per runtime-ABI symbol, and finally the
// closing #endif of the ASEA_SUPPORT gate.
func Render() string {
	var b strings.Builder
	b.WriteString(gate)
	b.WriteString(union)
	b.WriteString(structs)
	b.WriteString(macros)
	b.WriteString("\n")
	for _, sym := range runtimeabi.AllSymbols {
		b.WriteString(prototype(sym))
		b.WriteString("\n")
	}
	b.WriteString("#endif /* ASEA_SUPPORT */\n")
	return b.String()
}

// prototype returns the extern declaration for one runtime-ABI symbol.
// The signatures mirror the Go-side Helpers methods exactly; unknown
// names get a C comment naming the symbol instead of a prototype, so the
// preamble never silently drops a symbol AllSymbols gains in the future.
func prototype(sym string) string {
	switch sym {
	case "asea_call_script_function":
		return "extern void asea_call_script_function(asea_vm_registers*, asDWORD);"
	case "asea_call_system_function":
		return "extern int asea_call_system_function(asea_vm_registers*, asDWORD);"
	case "asea_call_object_method":
		return "extern void asea_call_object_method(asea_vm_registers*, void*, asDWORD);"
	case "asea_prepare_script_stack":
		return "extern int asea_prepare_script_stack(asea_vm_registers*, asDWORD, asDWORD*, asea_var*, asea_var*);"
	case "asea_prepare_script_stack_and_vars":
		return "extern int asea_prepare_script_stack_and_vars(asea_vm_registers*, asDWORD, asDWORD*, asea_var*, asea_var*);"
	case "asea_clean_args":
		return "extern void asea_clean_args(asea_vm_registers*, asDWORD, asea_var*);"
	case "asea_cast":
		return "extern void asea_cast(asea_vm_registers*, void*, asDWORD);"
	case "asea_new_script_object":
		return "extern void* asea_new_script_object(asDWORD);"
	case "asea_alloc":
		return "extern void* asea_alloc(asQWORD);"
	case "asea_free":
		return "extern void asea_free(void*);"
	case "asea_set_internal_exception":
		return "extern void asea_set_internal_exception(asea_vm_registers*, const char*);"
	case "asea_debug_message":
		return "extern void asea_debug_message(asea_vm_registers*, const char*);"
	case "asea_debug_int":
		return "extern void asea_debug_int(asea_vm_registers*, asINT64);"
	default:
		return fmt.Sprintf("/* unknown runtime ABI symbol %q, no prototype emitted */", sym)
	}
}
