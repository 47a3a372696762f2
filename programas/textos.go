package programas

var textos = []struct {
	nombre    string
	contenido string
}{
	{"frame0.txt", frame0},
	{"frame1.txt", frame1},
	{"created.txt", "archivo creado junto con la imagen\nsolo se puede leer\n"},
	{"verylargetextwithverylongname.tx", largo},
}

const frame0 = `/~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~\
|                                                                      |
|          o                                                           |
|            o        ><(((('>                                        |
|         o                                                             |
|                                        _                              |
|                                   ><_/ )                              |
|                                      \_)                              |
|      ;                                                 ;              |
|     ;;;                 ><>                           ;;;             |
|    ;;;;;                                             ;;;;;            |
\______________________________________________________________________/
`

const frame1 = `/~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~\
|                                                                      |
|        o                                                             |
|          o            ><(((('>                                      |
|       o                                                               |
|                                          _                            |
|                                     ><_/ )                            |
|                                        \_)                            |
|       ;                                               ;               |
|      ;;;                   ><>                       ;;;              |
|     ;;;;;                                           ;;;;;             |
\______________________________________________________________________/
`

const largo = `very large text file with a very long name
12345678901234567890123456789012345678901234567890123456789012345678901234567890
el nombre ocupa los 32 bytes de la entrada y no lleva terminador
`
